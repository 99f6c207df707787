package maintenance

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// RecountTaskName is the periodic task that enqueues RecountUsers for every
// company.
const RecountTaskName = "maintenance.recount_all"

// RecountUsers asks the worker to recount one company's users.
type RecountUsers struct {
	queue.TenantPayload
	Reason string `json:"reason"`
}

// UserCounter counts users of the active company.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Jobs holds the task handlers of this package.
type Jobs struct {
	companies tenant.Loader
	users     UserCounter
	logger    *slog.Logger

	mu     sync.RWMutex
	counts map[int64]int64
}

func NewJobs(companies tenant.Loader, users UserCounter, log *slog.Logger) *Jobs {
	if log == nil {
		log = slog.Default()
	}
	return &Jobs{
		companies: companies,
		users:     users,
		logger:    log.With(logger.Component("maintenance")),
		counts:    make(map[int64]int64),
	}
}

// Handlers returns the queue handlers to register with a worker.
func (j *Jobs) Handlers() []queue.Handler {
	return []queue.Handler{
		queue.NewTenantTaskHandler(j.companies, j.recountUsers),
	}
}

// UserCount returns the last count recorded for a company.
func (j *Jobs) UserCount(tenantID int64) (int64, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n, ok := j.counts[tenantID]
	return n, ok
}

func (j *Jobs) recountUsers(ctx context.Context, p RecountUsers) error {
	n, err := j.users.Count(ctx)
	if err != nil {
		return err
	}
	id := tenant.MustFromContext(ctx).ID

	j.mu.Lock()
	j.counts[id] = n
	j.mu.Unlock()

	j.logger.InfoContext(ctx, "users recounted",
		slog.Int64("users", n),
		slog.String("reason", p.Reason))
	return nil
}
