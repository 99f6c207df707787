package queue

import (
	"time"

	"github.com/google/uuid"
)

// DefaultQueueName is used when no queue is specified.
const DefaultQueueName = "default"

// TaskKind tells one-time tasks from scheduler-created ones.
type TaskKind string

const (
	KindOneTime  TaskKind = "one-time"
	KindPeriodic TaskKind = "periodic"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Task is a unit of background work.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Queue       string     `json:"queue" db:"queue"`
	Kind        TaskKind   `json:"kind" db:"kind"`
	Name        string     `json:"name" db:"name"`
	Payload     []byte     `json:"payload,omitempty" db:"payload"`
	Status      TaskStatus `json:"status" db:"status"`
	Attempts    int        `json:"attempts" db:"attempts"`
	MaxRetries  int        `json:"max_retries" db:"max_retries"`
	ScheduledAt time.Time  `json:"scheduled_at" db:"scheduled_at"`
	LockedUntil *time.Time `json:"locked_until,omitempty" db:"locked_until"`
	LockedBy    *uuid.UUID `json:"locked_by,omitempty" db:"locked_by"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	Error       *string    `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Exhausted reports whether the task has used up its retries.
func (t *Task) Exhausted() bool {
	return t.Attempts > t.MaxRetries
}

// DeadTask is a task that failed permanently, kept for inspection.
type DeadTask struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TaskID   uuid.UUID `json:"task_id" db:"task_id"`
	Queue    string    `json:"queue" db:"queue"`
	Kind     TaskKind  `json:"kind" db:"kind"`
	Name     string    `json:"name" db:"name"`
	Payload  []byte    `json:"payload,omitempty" db:"payload"`
	Error    string    `json:"error" db:"error"`
	Attempts int       `json:"attempts" db:"attempts"`
	FailedAt time.Time `json:"failed_at" db:"failed_at"`
}
