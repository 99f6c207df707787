package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Enqueuer adds one-time tasks to the queue.
type Enqueuer struct {
	storage    Storage
	queue      string
	maxRetries int
}

// NewEnqueuer creates an Enqueuer writing to storage.
func NewEnqueuer(storage Storage, opts ...EnqueuerOption) (*Enqueuer, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	e := &Enqueuer{
		storage:    storage,
		queue:      DefaultQueueName,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Enqueue stores payload as a pending task. The task name defaults to the
// payload's type name, which is also the name NewTaskHandler registers under.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) (uuid.UUID, error) {
	if payload == nil {
		return uuid.Nil, ErrPayloadNil
	}

	o := enqueueOptions{queue: e.queue, maxRetries: e.maxRetries}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("queue: marshal payload %T: %w", payload, err)
	}

	name := o.name
	if name == "" {
		name = taskName(payload)
	}

	now := time.Now()
	at := now.Add(o.delay)
	if !o.at.IsZero() {
		at = o.at
	}

	task := &Task{
		ID:          uuid.New(),
		Queue:       o.queue,
		Kind:        KindOneTime,
		Name:        name,
		Payload:     data,
		Status:      StatusPending,
		MaxRetries:  o.maxRetries,
		ScheduledAt: at,
		CreatedAt:   now,
	}
	if err := e.storage.CreateTask(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("queue: enqueue %q to %q: %w", name, o.queue, err)
	}
	return task.ID, nil
}
