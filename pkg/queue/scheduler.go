package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Scheduler creates periodic tasks from Schedule definitions. At most one
// pending instance of each periodic task exists at a time.
type Scheduler struct {
	storage  Storage
	mu       sync.Mutex
	tasks    map[string]*periodicTask
	interval time.Duration
	logger   *slog.Logger
}

type periodicTask struct {
	name       string
	schedule   Schedule
	queue      string
	maxRetries int
	last       time.Time
}

// NewScheduler creates a Scheduler over storage.
func NewScheduler(storage Storage, opts ...SchedulerOption) (*Scheduler, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	s := &Scheduler{
		storage:  storage,
		tasks:    make(map[string]*periodicTask),
		interval: 30 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("queue.scheduler"))

	return s, nil
}

// AddTask registers a periodic task. Its handler must be registered with
// NewPeriodicTaskHandler under the same name.
func (s *Scheduler) AddTask(name string, schedule Schedule, opts ...PeriodicOption) error {
	t := &periodicTask{
		name:       name,
		schedule:   schedule,
		queue:      DefaultQueueName,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("%w: %s", ErrTaskAlreadyRegistered, name)
	}
	s.tasks[name] = t

	s.logger.Info("registered periodic task",
		logger.Task(name),
		slog.String("schedule", schedule.String()))
	return nil
}

// Tasks returns the registered task names.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}

// Run checks for due tasks immediately and then every check interval until
// ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	n := len(s.tasks)
	s.mu.Unlock()
	if n == 0 {
		return ErrNoScheduledTasks
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case now := <-ticker.C:
			s.check(ctx, now)
		}
	}
}

func (s *Scheduler) check(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if err := s.schedule(ctx, t, now); err != nil {
			s.logger.ErrorContext(ctx, "failed to schedule task", logger.Task(t.name), logger.Error(err))
		}
	}
}

func (s *Scheduler) schedule(ctx context.Context, t *periodicTask, now time.Time) error {
	var next time.Time
	if t.last.IsZero() {
		next = t.schedule.Next(now)
	} else {
		next = t.schedule.Next(t.last)
		if next.After(now) {
			return nil
		}
	}

	existing, err := s.storage.PendingByName(ctx, t.name)
	switch {
	case err == nil:
		t.last = existing.ScheduledAt
		return nil
	case !errors.Is(err, ErrTaskNotFound):
		return err
	}

	task := &Task{
		ID:          uuid.New(),
		Queue:       t.queue,
		Kind:        KindPeriodic,
		Name:        t.name,
		Status:      StatusPending,
		MaxRetries:  t.maxRetries,
		ScheduledAt: next,
		CreatedAt:   now,
	}
	if err := s.storage.CreateTask(ctx, task); err != nil {
		return err
	}
	t.last = next

	s.logger.InfoContext(ctx, "created periodic task", logger.Task(t.name), slog.Time("scheduled_for", next))
	return nil
}
