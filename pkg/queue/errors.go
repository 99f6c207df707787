package queue

import "errors"

var (
	ErrStorageNil            = errors.New("queue: storage cannot be nil")
	ErrPayloadNil            = errors.New("queue: payload cannot be nil")
	ErrTaskNotFound          = errors.New("queue: task not found")
	ErrNoTaskToClaim         = errors.New("queue: no task to claim")
	ErrHandlerNotFound       = errors.New("queue: no handler registered for task")
	ErrNoHandlers            = errors.New("queue: no task handlers registered")
	ErrWorkerRunning         = errors.New("queue: worker already running")
	ErrTaskAlreadyRegistered = errors.New("queue: task already registered")
	ErrNoScheduledTasks      = errors.New("queue: scheduler has no registered tasks")
	ErrMissingTenant         = errors.New("queue: task payload has no tenant id")
	ErrPermanent             = errors.New("queue: permanent failure")
)

// Permanent marks err as non-retryable. The worker moves the task straight to
// the dead letter queue.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrPermanent, err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}
