package queue

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-process Storage for tests and local development.
// Expired locks are reclaimed lazily on the next ClaimTask.
type MemoryStorage struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
	dlq   []DeadTask
	now   func() time.Time
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks: make(map[uuid.UUID]*Task),
		now:   time.Now,
	}
}

func (ms *MemoryStorage) CreateTask(_ context.Context, task *Task) error {
	if task == nil {
		return ErrPayloadNil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("queue: task %s already exists", task.ID)
	}
	cp := *task
	ms.tasks[task.ID] = &cp
	return nil
}

func (ms *MemoryStorage) ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lock time.Duration) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	var due []*Task
	for _, t := range ms.tasks {
		if !slices.Contains(queues, t.Queue) || t.ScheduledAt.After(now) {
			continue
		}
		switch {
		case t.Status == StatusPending:
		case t.Status == StatusProcessing && t.LockedUntil != nil && t.LockedUntil.Before(now):
		default:
			continue
		}
		due = append(due, t)
	}
	if len(due) == 0 {
		return nil, ErrNoTaskToClaim
	}

	slices.SortFunc(due, func(a, b *Task) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return cmp.Compare(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	})

	t := due[0]
	until := now.Add(lock)
	t.Status = StatusProcessing
	t.LockedUntil = &until
	t.LockedBy = &workerID
	t.Attempts++

	cp := *t
	return &cp, nil
}

func (ms *MemoryStorage) CompleteTask(_ context.Context, taskID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	now := ms.now()
	t.Status = StatusCompleted
	t.ProcessedAt = &now
	t.LockedUntil = nil
	t.LockedBy = nil
	return nil
}

func (ms *MemoryStorage) FailTask(_ context.Context, taskID uuid.UUID, errMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	t.Error = &errMsg
	t.LockedUntil = nil
	t.LockedBy = nil
	if t.Exhausted() {
		t.Status = StatusFailed
		return nil
	}
	t.Status = StatusPending
	t.ScheduledAt = ms.now().Add(backoff(t.Attempts))
	return nil
}

func (ms *MemoryStorage) MoveToDLQ(_ context.Context, taskID uuid.UUID, errMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	ms.dlq = append(ms.dlq, DeadTask{
		ID:       uuid.New(),
		TaskID:   t.ID,
		Queue:    t.Queue,
		Kind:     t.Kind,
		Name:     t.Name,
		Payload:  t.Payload,
		Error:    errMsg,
		Attempts: t.Attempts,
		FailedAt: ms.now(),
	})
	delete(ms.tasks, taskID)
	return nil
}

func (ms *MemoryStorage) PendingByName(_ context.Context, name string) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, t := range ms.tasks {
		if t.Name == name && (t.Status == StatusPending || t.Status == StatusProcessing) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrTaskNotFound
}

// Task returns a copy of the stored task.
func (ms *MemoryStorage) Task(id uuid.UUID) (*Task, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// Tasks returns copies of all stored tasks ordered by creation time.
func (ms *MemoryStorage) Tasks() []Task {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]Task, 0, len(ms.tasks))
	for _, t := range ms.tasks {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b Task) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

// DeadTasks returns the dead letter queue contents.
func (ms *MemoryStorage) DeadTasks() []DeadTask {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return slices.Clone(ms.dlq)
}
