package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/requestid"
)

// TaskObserver is called after every task execution with the handler result.
type TaskObserver func(name string, err error, d time.Duration)

// Worker claims due tasks and dispatches them to registered handlers.
type Worker struct {
	storage  Storage
	id       uuid.UUID
	mu       sync.RWMutex
	handlers map[string]Handler
	running  atomic.Bool

	queues       []string
	pollInterval time.Duration
	lockTimeout  time.Duration
	concurrency  int
	observers    []TaskObserver
	logger       *slog.Logger
}

// NewWorker creates a Worker over storage.
func NewWorker(storage Storage, opts ...WorkerOption) (*Worker, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	w := &Worker{
		storage:      storage,
		id:           uuid.New(),
		handlers:     make(map[string]Handler),
		queues:       []string{DefaultQueueName},
		pollInterval: 5 * time.Second,
		lockTimeout:  5 * time.Minute,
		concurrency:  1,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.Component("queue.worker"), slog.String("worker_id", w.id.String()))

	return w, nil
}

// NewWorkerFromConfig creates a Worker using cfg for its timing and concurrency.
func NewWorkerFromConfig(storage Storage, cfg Config, opts ...WorkerOption) (*Worker, error) {
	return NewWorker(storage, append([]WorkerOption{
		WithPollInterval(cfg.PollInterval),
		WithLockTimeout(cfg.LockTimeout),
		WithMaxConcurrentTasks(cfg.MaxConcurrentTasks),
	}, opts...)...)
}

// ID returns the worker identifier used to lock tasks.
func (w *Worker) ID() uuid.UUID { return w.id }

// Register adds handlers. Registering a name twice is an error.
func (w *Worker) Register(handlers ...Handler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, h := range handlers {
		if h == nil {
			continue
		}
		if _, exists := w.handlers[h.Name()]; exists {
			return fmt.Errorf("%w: %s", ErrTaskAlreadyRegistered, h.Name())
		}
		w.handlers[h.Name()] = h
	}
	return nil
}

// Run polls for tasks until ctx is done, then waits for in-flight tasks.
// In-flight tasks are not cancelled by ctx; each is bounded by the lock timeout.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.RLock()
	n := len(w.handlers)
	w.mu.RUnlock()
	if n == 0 {
		return ErrNoHandlers
	}
	if !w.running.CompareAndSwap(false, true) {
		return ErrWorkerRunning
	}
	defer w.running.Store(false)

	w.logger.InfoContext(ctx, "worker started",
		slog.Any("queues", w.queues),
		slog.Int("concurrency", w.concurrency))

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopping, waiting for active tasks")
			wg.Wait()
			w.logger.Info("worker stopped")
			return nil
		case <-ticker.C:
			w.dispatch(ctx, sem, &wg)
		}
	}
}

// dispatch claims tasks while there are free slots.
func (w *Worker) dispatch(ctx context.Context, sem chan struct{}, wg *sync.WaitGroup) {
	for ctx.Err() == nil {
		select {
		case sem <- struct{}{}:
		default:
			return
		}

		task, err := w.storage.ClaimTask(ctx, w.id, w.queues, w.lockTimeout)
		if err != nil {
			<-sem
			if !errors.Is(err, ErrNoTaskToClaim) && !errors.Is(err, context.Canceled) {
				w.logger.ErrorContext(ctx, "failed to claim task", logger.Error(err))
			}
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := w.process(context.WithoutCancel(ctx), task); err != nil {
				w.logger.ErrorContext(ctx, "failed to record task result", logger.Error(err))
			}
		}()
	}
}

// ProcessNext claims and executes a single task synchronously.
// It reports false when no task was due.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	task, err := w.storage.ClaimTask(ctx, w.id, w.queues, w.lockTimeout)
	if errors.Is(err, ErrNoTaskToClaim) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, w.process(ctx, task)
}

// process executes task and records the outcome. The returned error is a
// storage failure, never the handler error.
func (w *Worker) process(ctx context.Context, task *Task) error {
	ctx = requestid.WithContext(ctx, task.ID.String())
	log := w.logger.With(logger.Task(task.Name), slog.String("task_id", task.ID.String()))

	w.mu.RLock()
	h, ok := w.handlers[task.Name]
	w.mu.RUnlock()
	if !ok {
		log.ErrorContext(ctx, "no handler registered for task")
		return w.storage.MoveToDLQ(ctx, task.ID, ErrHandlerNotFound.Error())
	}

	start := time.Now()
	err := w.execute(ctx, h, task)
	d := time.Since(start)
	for _, observe := range w.observers {
		observe(task.Name, err, d)
	}

	switch {
	case err == nil:
		log.InfoContext(ctx, "task completed", logger.Duration(d))
		return w.storage.CompleteTask(ctx, task.ID)
	case IsPermanent(err) || task.Exhausted():
		log.WarnContext(ctx, "task moved to dead letter queue",
			logger.Error(err),
			slog.Int("attempts", task.Attempts),
			slog.Bool("permanent", IsPermanent(err)))
		return w.storage.MoveToDLQ(ctx, task.ID, err.Error())
	default:
		log.ErrorContext(ctx, "task failed",
			logger.Error(err),
			slog.Int("attempts", task.Attempts),
			slog.Int("max_retries", task.MaxRetries),
			logger.Duration(d))
		return w.storage.FailTask(ctx, task.ID, err.Error())
	}
}

func (w *Worker) execute(ctx context.Context, h Handler, task *Task) (err error) {
	ctx, cancel := context.WithTimeout(ctx, w.lockTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: handler panicked: %v", r)
		}
	}()

	return h.Handle(ctx, task.Payload)
}
