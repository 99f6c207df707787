package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Failure records one tenant whose work returned an error or panicked.
type Failure struct {
	TenantID int64
	Err      error
}

// Report summarizes a sweep over all tenants.
type Report struct {
	Processed int
	Succeeded int
	Failures  []Failure
	// LastID is the id of the last tenant visited; pass it to
	// WithStartAfter to resume an interrupted sweep.
	LastID int64
}

// Err joins every per-tenant failure into one error, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("tenant %d: %w", f.TenantID, f.Err))
	}
	return errors.Join(errs...)
}

// WorkFunc is called once per tenant. ctx carries t as the active tenant.
type WorkFunc func(ctx context.Context, t *Tenant) error

// Iterator runs a piece of work once for every tenant, one tenant at a time.
type Iterator struct {
	lister Lister
	opts   iteratorOptions
}

// NewIterator creates an Iterator over the tenants returned by lister.
func NewIterator(lister Lister, opts ...IteratorOption) *Iterator {
	o := iteratorOptions{
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Iterator{lister: lister, opts: o}
}

// ForEach visits tenants in ascending id order, fetching them in batches, and
// runs work with each tenant active and passed as its argument. No two tenants are ever active at once
// and nothing is active between iterations.
//
// A failing tenant is logged, recorded in the report and skipped; Report.Err
// joins those failures. The returned error is non-nil only when the sweep
// stopped early: on a fail-fast failure, a listing error or ctx cancellation.
// Report.LastID then tells where to resume.
func (it *Iterator) ForEach(ctx context.Context, work WorkFunc) (Report, error) {
	report := Report{LastID: it.opts.startAfter}
	log := it.opts.logger

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := it.lister.ListAfter(ctx, report.LastID, it.opts.batchSize)
		if err != nil {
			return report, errors.Join(ErrListTenants, err)
		}

		for _, t := range batch {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			start := time.Now()
			err := it.runOne(ctx, t, work)
			duration := time.Since(start)

			report.Processed++
			report.LastID = t.ID
			if it.opts.observer != nil {
				it.opts.observer(t.ID, err, duration)
			}

			if err == nil {
				report.Succeeded++
				continue
			}

			report.Failures = append(report.Failures, Failure{TenantID: t.ID, Err: err})
			log.ErrorContext(ctx, "tenant work failed",
				slog.Int64("tenant_id", t.ID),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()))

			if it.opts.failFast {
				return report, fmt.Errorf("tenant %d: %w", t.ID, err)
			}
		}

		if len(batch) < it.opts.batchSize {
			break
		}
	}

	log.InfoContext(ctx, "tenant sweep finished",
		slog.Int("processed", report.Processed),
		slog.Int("failed", len(report.Failures)))

	return report, nil
}

func (it *Iterator) runOne(ctx context.Context, t *Tenant, work WorkFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkPanicked, r)
		}
	}()
	return Run(ctx, t, func(ctx context.Context) error {
		return work(ctx, t)
	})
}

// ForEach is a shorthand for NewIterator(lister, opts...).ForEach(ctx, work).
func ForEach(ctx context.Context, lister Lister, work WorkFunc, opts ...IteratorOption) (Report, error) {
	return NewIterator(lister, opts...).ForEach(ctx, work)
}
