package maintenance

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Enqueuer puts tasks on the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) (uuid.UUID, error)
}

// Runner runs work once per company, each with its company active.
type Runner struct {
	companies tenant.Lister
	enqueuer  Enqueuer
	opts      []tenant.IteratorOption
	logger    *slog.Logger
}

// NewRunner creates a Runner. opts apply to every sweep and may be extended
// per call.
func NewRunner(companies tenant.Lister, enqueuer Enqueuer, log *slog.Logger, opts ...tenant.IteratorOption) *Runner {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("maintenance"))
	return &Runner{
		companies: companies,
		enqueuer:  enqueuer,
		opts:      append([]tenant.IteratorOption{tenant.WithIteratorLogger(log)}, opts...),
		logger:    log,
	}
}

// ForAll calls work once per company in id order. Failures of one company
// are collected in the report and do not stop the sweep unless
// tenant.WithFailFast is set; the returned error means the sweep stopped.
func (r *Runner) ForAll(ctx context.Context, work tenant.WorkFunc, opts ...tenant.IteratorOption) (tenant.Report, error) {
	all := append(append([]tenant.IteratorOption{}, r.opts...), opts...)
	report, err := tenant.ForEach(ctx, r.companies, work, all...)
	r.logger.InfoContext(ctx, "sweep finished",
		slog.Int("processed", report.Processed),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", len(report.Failures)))
	return report, err
}

// EnqueueRecount enqueues RecountUsers for every company.
func (r *Runner) EnqueueRecount(ctx context.Context, reason string, opts ...tenant.IteratorOption) (tenant.Report, error) {
	return r.ForAll(ctx, func(ctx context.Context, _ *tenant.Tenant) error {
		header, err := queue.CurrentTenant(ctx)
		if err != nil {
			return err
		}
		_, err = r.enqueuer.Enqueue(ctx, RecountUsers{TenantPayload: header, Reason: reason})
		return err
	}, opts...)
}

// PeriodicHandler returns the handler for the RecountTaskName periodic task.
// Per-company enqueue failures are only logged: retrying the task would
// enqueue duplicates for the companies that succeeded.
func (r *Runner) PeriodicHandler() queue.Handler {
	return queue.NewPeriodicTaskHandler(RecountTaskName, func(ctx context.Context) error {
		_, err := r.EnqueueRecount(ctx, "scheduled")
		return err
	})
}
