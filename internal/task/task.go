package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeCopyGeneration generates one copy of one type for one product.
	TaskTypeCopyGeneration = "copy_generation"
)

// Task represents a unit of work processed by the worker pool.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns a JSON description of the task, used for logging
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing.
	// Returns an error if the queue is full or closed.
	Enqueue(task Task) error

	// Close prevents further submission. Tasks already queued are still
	// delivered to readers.
	Close()
}
