package tenant

import (
	"log/slog"
	"time"
)

// DefaultBatchSize is how many tenants the iterator fetches per page.
const DefaultBatchSize = 100

// ResultObserver is notified after each tenant's work completes.
// err is nil on success.
type ResultObserver func(tenantID int64, err error, duration time.Duration)

// IteratorOption configures an Iterator.
type IteratorOption func(*iteratorOptions)

type iteratorOptions struct {
	batchSize  int
	failFast   bool
	startAfter int64
	observer   ResultObserver
	logger     *slog.Logger
}

// WithBatchSize sets the page size used when listing tenants.
func WithBatchSize(n int) IteratorOption {
	return func(o *iteratorOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithFailFast stops the sweep at the first failing tenant.
func WithFailFast(enabled bool) IteratorOption {
	return func(o *iteratorOptions) {
		o.failFast = enabled
	}
}

// WithStartAfter resumes a sweep after the given tenant id.
func WithStartAfter(id int64) IteratorOption {
	return func(o *iteratorOptions) {
		if id > 0 {
			o.startAfter = id
		}
	}
}

// WithResultObserver registers a callback invoked after every tenant.
func WithResultObserver(fn ResultObserver) IteratorOption {
	return func(o *iteratorOptions) {
		o.observer = fn
	}
}

// WithIteratorLogger sets the logger for the iterator.
func WithIteratorLogger(logger *slog.Logger) IteratorOption {
	return func(o *iteratorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
