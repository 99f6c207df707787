package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage is the persistence contract shared by Enqueuer, Scheduler and Worker.
type Storage interface {
	// CreateTask persists a new pending task.
	CreateTask(ctx context.Context, task *Task) error

	// ClaimTask locks the next due task in one of queues for workerID.
	// It returns ErrNoTaskToClaim when nothing is due.
	ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lock time.Duration) (*Task, error)

	// CompleteTask marks the task completed.
	CompleteTask(ctx context.Context, taskID uuid.UUID) error

	// FailTask records errMsg and puts the task back to pending with backoff,
	// or leaves it failed when retries are exhausted.
	FailTask(ctx context.Context, taskID uuid.UUID, errMsg string) error

	// MoveToDLQ moves the task to the dead letter queue.
	MoveToDLQ(ctx context.Context, taskID uuid.UUID, errMsg string) error

	// PendingByName returns a pending or processing task with the given name,
	// or ErrTaskNotFound.
	PendingByName(ctx context.Context, name string) (*Task, error)
}

// backoff is the delay before the given retry attempt.
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 10 {
		attempt = 10
	}
	return time.Duration(attempt*attempt) * time.Second
}
