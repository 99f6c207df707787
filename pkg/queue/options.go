package queue

import (
	"log/slog"
	"time"
)

// EnqueuerOption configures an Enqueuer.
type EnqueuerOption func(*Enqueuer)

// WithDefaultQueue sets the queue used when Enqueue gets no WithQueue.
func WithDefaultQueue(name string) EnqueuerOption {
	return func(e *Enqueuer) {
		if name != "" {
			e.queue = name
		}
	}
}

// WithDefaultMaxRetries sets the retry budget used when Enqueue gets no WithMaxRetries.
func WithDefaultMaxRetries(n int) EnqueuerOption {
	return func(e *Enqueuer) {
		if n >= 0 && n <= 10 {
			e.maxRetries = n
		}
	}
}

// EnqueueOption configures a single Enqueue call.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	queue      string
	name       string
	maxRetries int
	delay      time.Duration
	at         time.Time
}

// WithQueue routes the task to a named queue.
func WithQueue(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.queue = name
		}
	}
}

// WithTaskName overrides the task name derived from the payload type.
func WithTaskName(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithMaxRetries sets the retry budget (0-10).
func WithMaxRetries(n int) EnqueueOption {
	return func(o *enqueueOptions) {
		if n >= 0 && n <= 10 {
			o.maxRetries = n
		}
	}
}

// WithDelay postpones the task.
func WithDelay(d time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithScheduledAt runs the task no earlier than at. It wins over WithDelay.
func WithScheduledAt(at time.Time) EnqueueOption {
	return func(o *enqueueOptions) {
		o.at = at
	}
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithQueues sets which queues the worker pulls from.
func WithQueues(names ...string) WorkerOption {
	return func(w *Worker) {
		if len(names) > 0 {
			w.queues = names
		}
	}
}

// WithPollInterval sets how often the worker looks for due tasks.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithLockTimeout bounds a single task execution.
func WithLockTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.lockTimeout = d
		}
	}
}

// WithMaxConcurrentTasks limits parallel executions.
func WithMaxConcurrentTasks(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithTaskObserver registers fn to be called after every execution.
func WithTaskObserver(fn TaskObserver) WorkerOption {
	return func(w *Worker) {
		if fn != nil {
			w.observers = append(w.observers, fn)
		}
	}
}

// WithWorkerLogger sets the worker logger.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithCheckInterval sets how often the scheduler checks for due tasks.
func WithCheckInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSchedulerLogger sets the scheduler logger.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// PeriodicOption configures a task registered with Scheduler.AddTask.
type PeriodicOption func(*periodicTask)

// WithPeriodicQueue routes the periodic task to a named queue.
func WithPeriodicQueue(name string) PeriodicOption {
	return func(t *periodicTask) {
		if name != "" {
			t.queue = name
		}
	}
}

// WithPeriodicMaxRetries sets the retry budget (0-10) of each created task.
func WithPeriodicMaxRetries(n int) PeriodicOption {
	return func(t *periodicTask) {
		if n >= 0 && n <= 10 {
			t.maxRetries = n
		}
	}
}
