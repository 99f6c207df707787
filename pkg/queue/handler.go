package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Handler executes tasks registered under Name.
	Handler interface {
		Name() string
		Handle(ctx context.Context, payload json.RawMessage) error
	}

	TaskHandlerFunc[T any]  func(ctx context.Context, payload T) error
	PeriodicTaskHandlerFunc func(ctx context.Context) error
)

// NewTaskHandler decodes the payload into T. It registers under T's type name.
func NewTaskHandler[T any](handler TaskHandlerFunc[T]) Handler {
	var payload T
	return &typedHandler[T]{
		name:    taskName(payload),
		handler: handler,
	}
}

// NewPeriodicTaskHandler handles tasks created by the Scheduler under name.
func NewPeriodicTaskHandler(name string, handler PeriodicTaskHandlerFunc) Handler {
	return &periodicHandler{
		name:    name,
		handler: handler,
	}
}

type typedHandler[T any] struct {
	name    string
	handler TaskHandlerFunc[T]
}

func (h *typedHandler[T]) Name() string { return h.name }

func (h *typedHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return Permanent(fmt.Errorf("queue: decode %s payload: %w", h.name, err))
	}
	return h.handler(ctx, t)
}

type periodicHandler struct {
	name    string
	handler PeriodicTaskHandlerFunc
}

func (h *periodicHandler) Name() string { return h.name }

func (h *periodicHandler) Handle(ctx context.Context, _ json.RawMessage) error {
	return h.handler(ctx)
}

func taskName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}
