package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the TaskQueue
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is a bounded FIFO of tasks backed by a buffered channel. It
// satisfies both TaskQueueReader and TaskQueueWriter.
type TaskQueue struct {
	mu     sync.Mutex
	tasks  chan Task
	logger *slog.Logger
	closed bool
}

// NewTaskQueue creates a new task queue with the specified buffer size
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if size < 0 {
		size = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueue{
		tasks:  make(chan Task, size),
		logger: logger,
	}
}

// Enqueue adds a task without blocking.
// Returns ErrQueueClosed after Close and ErrQueueFull when the buffer is full.
func (q *TaskQueue) Enqueue(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logger.Debug("task enqueued",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"queue_len", len(q.tasks),
			"queue_cap", cap(q.tasks))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close closes the task queue, preventing further task submission.
// It is safe to call more than once.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.tasks)
		q.logger.Debug("task queue closed")
	}
}

// GetChannel returns a read-only channel for consuming tasks
func (q *TaskQueue) GetChannel() <-chan Task {
	return q.tasks
}
