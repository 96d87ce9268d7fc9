package fanout

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/redact"
	"github.com/geo-copy/geo-api/internal/task"
)

// Outcome statuses. A skipped task was dequeued after its run context ended
// and never reached the generator; it still counts as failed.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Outcome is the settled result of one generation task.
type Outcome struct {
	TaskID     string          `json:"taskId"`
	ProductID  string          `json:"productId"`
	CopyType   domain.CopyType `json:"copyType"`
	Status     string          `json:"status"`
	Content    string          `json:"content,omitempty"`
	Error      string          `json:"error,omitempty"`
	DurationMS int64           `json:"durationMs"`

	err error
}

// Err returns the failure cause, if any.
func (o Outcome) Err() error {
	return o.err
}

// GenerationTask produces one copy of one type for one product. It writes
// its result into a cell owned exclusively by this task.
type GenerationTask struct {
	id        uuid.UUID
	productID string
	copyType  domain.CopyType
	model     string
	generator Generator
	out       *Outcome

	mu     sync.Mutex
	status task.TaskStatus
}

// Ensure GenerationTask implements task.Task.
var _ task.Task = (*GenerationTask)(nil)

func newGenerationTask(
	productID string,
	ct domain.CopyType,
	model string,
	gen Generator,
	out *Outcome,
) *GenerationTask {
	id := uuid.New()
	*out = Outcome{TaskID: id.String(), ProductID: productID, CopyType: ct, Status: OutcomeSkipped}
	return &GenerationTask{
		id:        id,
		productID: productID,
		copyType:  ct,
		model:     model,
		generator: gen,
		out:       out,
		status:    task.TaskStatusPending,
	}
}

// ID implements task.Task.
func (t *GenerationTask) ID() uuid.UUID { return t.id }

// Type implements task.Task.
func (t *GenerationTask) Type() string { return task.TaskTypeCopyGeneration }

// Payload implements task.Task.
func (t *GenerationTask) Payload() []byte {
	b, _ := json.Marshal(map[string]string{
		"product_id": t.productID,
		"copy_type":  t.copyType.String(),
		"model":      t.model,
	})
	return b
}

// Status implements task.Task.
func (t *GenerationTask) Status() task.TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *GenerationTask) setStatus(s task.TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute runs a buffered generation. An empty result is reported as an
// outcome, not an error; only a failed call returns an error. A task whose
// context has already ended settles as skipped without calling the generator.
func (t *GenerationTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		t.out.Error = redact.Error(err)
		t.out.err = err
		t.setStatus(task.TaskStatusFailed)
		return err
	}
	t.setStatus(task.TaskStatusProcessing)

	ct := t.copyType
	start := time.Now()
	res, err := t.generator.Generate(ctx, generation.Request{
		ProductID: t.productID,
		CopyType:  &ct,
		Model:     t.model,
	})
	t.out.DurationMS = time.Since(start).Milliseconds()

	switch {
	case err != nil:
		t.out.Status = OutcomeFailed
		t.out.Error = redact.Error(err)
		t.out.err = err
		t.setStatus(task.TaskStatusFailed)
		return err
	case res.Content == "":
		t.out.Status = OutcomeEmpty
	default:
		t.out.Status = OutcomeSucceeded
		t.out.Content = res.Content
	}
	t.setStatus(task.TaskStatusCompleted)
	return nil
}
