package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/geo-copy/geo-api/internal/redact"
)

// WorkerPool manages a fixed set of worker goroutines that process tasks
// from a task queue.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines
	wg sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	logger *slog.Logger

	// errorHandler is called when a task execution fails or panics.
	// If nil, errors are only logged.
	errorHandler func(task Task, err error)

	// doneHandler is called after every task settles, successful or not.
	doneHandler func(task Task, err error)

	startOnce sync.Once
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with the default
// generation concurrency.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 6,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SetErrorHandler sets the handler called when a task fails.
// It must be called before StartContext.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// SetDoneHandler sets the handler called after each task settles; err is
// nil on success. It must be called before StartContext.
func (p *WorkerPool) SetDoneHandler(handler func(task Task, err error)) {
	p.doneHandler = handler
}

// StartContext launches the workers. Tasks execute with a context derived
// from ctx. Calls after the first are ignored.
func (p *WorkerPool) StartContext(ctx context.Context) {
	p.startOnce.Do(func() {
		p.ctx, p.cancel = context.WithCancel(ctx)

		p.logger.Debug("starting worker pool", "worker_count", p.workerCount)
		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
	})
}

// Wait blocks until the queue is closed and every queued task has settled.
// A cancelled context does not stop the workers early: each remaining task
// is still dequeued and sees the cancellation in Execute.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Debug("worker pool drained")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for t := range p.taskQueue.GetChannel() {
		p.process(id, t)
	}
}

func (p *WorkerPool) process(workerID int, t Task) {
	start := time.Now()
	log := p.logger.With(
		"worker_id", workerID,
		"task_id", t.ID(),
		"task_type", t.Type())

	err := p.execute(t)
	duration := time.Since(start)

	if err != nil {
		log.Warn("task failed",
			"error", redact.Error(err),
			"duration_ms", duration.Milliseconds())
		if p.errorHandler != nil {
			p.errorHandler(t, err)
		}
	} else {
		log.Debug("task completed", "duration_ms", duration.Milliseconds())
	}

	if p.doneHandler != nil {
		p.doneHandler(t, err)
	}
}

// execute runs the task, converting a panic into an error.
func (p *WorkerPool) execute(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return t.Execute(p.ctx)
}
