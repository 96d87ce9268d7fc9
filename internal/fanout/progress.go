package fanout

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time view of a run's progress.
type Snapshot struct {
	RunID     string `json:"runId,omitempty"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	Running   bool   `json:"running"`
}

// Progress counts settled tasks for the current run. The completed count
// only grows within a run and is reset when the next run begins.
type Progress struct {
	completed atomic.Int64
	total     atomic.Int64
	running   atomic.Bool

	mu    sync.RWMutex
	runID uuid.UUID
}

// Percent returns floor(completed / total * 100), or 0 when total is 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return completed * 100 / total
}

func (p *Progress) begin(runID uuid.UUID, total int) {
	p.mu.Lock()
	p.runID = runID
	p.mu.Unlock()

	p.completed.Store(0)
	p.total.Store(int64(total))
	p.running.Store(true)
}

// advance records one settled task and returns the resulting snapshot.
func (p *Progress) advance() Snapshot {
	completed := p.completed.Add(1)
	return p.snapshot(completed)
}

func (p *Progress) finish() {
	p.running.Store(false)
}

// Snapshot returns the current progress.
func (p *Progress) Snapshot() Snapshot {
	return p.snapshot(p.completed.Load())
}

func (p *Progress) snapshot(completed int64) Snapshot {
	p.mu.RLock()
	runID := p.runID
	p.mu.RUnlock()

	total := int(p.total.Load())
	s := Snapshot{
		Completed: int(completed),
		Total:     total,
		Percent:   Percent(int(completed), total),
		Running:   p.running.Load(),
	}
	if runID != uuid.Nil {
		s.RunID = runID.String()
	}
	return s
}
