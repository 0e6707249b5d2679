package task

import "context"

// Task type constants
const (
	// TaskTypeKeywordRefresh rewrites the search keywords of one product
	TaskTypeKeywordRefresh = "keyword_refresh"
)

// Task represents a unit of work to be processed by the worker pool
type Task interface {
	// ID returns the identifier of the record the task works on
	ID() string

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
type TaskQueueWriter interface {
	// Enqueue adds a task without blocking.
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// EnqueueContext adds a task, waiting for capacity until ctx is done
	EnqueueContext(ctx context.Context, task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}
