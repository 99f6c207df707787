package maintenance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/company"
	"github.com/dmitrymomot/tenantkit/svc/maintenance"
	"github.com/dmitrymomot/tenantkit/svc/user"
)

type fixture struct {
	companies *company.Service
	users     *user.Service
	storage   *queue.MemoryStorage
	runner    *maintenance.Runner
	jobs      *maintenance.Jobs
	worker    *queue.Worker
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		companies: company.NewService(company.NewMemoryStore()),
		storage:   queue.NewMemoryStorage(),
	}
	var err error
	f.users, err = user.NewService(user.NewMemoryStore(), user.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	enq, err := queue.NewEnqueuer(f.storage)
	require.NoError(t, err)
	f.runner = maintenance.NewRunner(f.companies, enq, nil, tenant.WithBatchSize(2))
	f.jobs = maintenance.NewJobs(f.companies, f.users, nil)

	f.worker, err = queue.NewWorker(f.storage)
	require.NoError(t, err)
	require.NoError(t, f.worker.Register(f.jobs.Handlers()...))
	require.NoError(t, f.worker.Register(f.runner.PeriodicHandler()))
	return f
}

// seed creates companies with the given number of users each.
func (f fixture) seed(t *testing.T, users ...int) []*tenant.Tenant {
	t.Helper()
	ctx := context.Background()
	out := make([]*tenant.Tenant, 0, len(users))
	for i, n := range users {
		c, err := f.companies.Create(ctx, company.Input{
			Name:  "c",
			Email: string(rune('a'+i)) + "@x.io",
			Phone: "1",
		})
		require.NoError(t, err)
		err = tenant.Run(ctx, c, func(ctx context.Context) error {
			for j := range n {
				email := string(rune('a'+i)) + string(rune('a'+j)) + "@u.io"
				if _, err := f.users.Create(ctx, user.Input{Name: "u", Email: email, Password: "secret-pass"}); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func (f fixture) drain(t *testing.T) {
	t.Helper()
	for {
		ok, err := f.worker.ProcessNext(context.Background())
		require.NoError(t, err)
		if !ok {
			return
		}
	}
}

func TestRunner_ForAll(t *testing.T) {
	t.Parallel()

	t.Run("each company sees only its users", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seed(t, 1, 3, 0)

		got := map[int64]int64{}
		report, err := f.runner.ForAll(context.Background(), func(ctx context.Context, c *tenant.Tenant) error {
			n, err := f.users.Count(ctx)
			got[c.ID] = n
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 3, report.Processed)
		assert.Equal(t, map[int64]int64{1: 1, 2: 3, 3: 0}, got)
	})

	t.Run("failures are collected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seed(t, 0, 0, 0)

		boom := errors.New("boom")
		report, err := f.runner.ForAll(context.Background(), func(_ context.Context, c *tenant.Tenant) error {
			if c.ID == 2 {
				return boom
			}
			return nil
		})
		require.NoError(t, err, "one failing company does not stop the sweep")
		assert.Equal(t, 2, report.Succeeded)
		require.Len(t, report.Failures, 1)
		assert.ErrorIs(t, report.Err(), boom)
	})

	t.Run("fail fast", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seed(t, 0, 0, 0)

		calls := 0
		report, err := f.runner.ForAll(context.Background(), func(context.Context, *tenant.Tenant) error {
			calls++
			return errors.New("boom")
		}, tenant.WithFailFast(true))
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, int64(1), report.LastID)
	})
}

func TestRecountUsers(t *testing.T) {
	t.Parallel()

	t.Run("fan out and execute per company", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		cs := f.seed(t, 2, 1)

		report, err := f.runner.EnqueueRecount(context.Background(), "test")
		require.NoError(t, err)
		require.NoError(t, report.Err())
		require.Len(t, f.storage.Tasks(), 2)

		f.drain(t)

		n, ok := f.jobs.UserCount(cs[0].ID)
		require.True(t, ok)
		assert.Equal(t, int64(2), n)
		n, ok = f.jobs.UserCount(cs[1].ID)
		require.True(t, ok)
		assert.Equal(t, int64(1), n)
	})

	t.Run("deleted company goes to the dead letter queue", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		cs := f.seed(t, 1)

		_, err := f.runner.EnqueueRecount(context.Background(), "test")
		require.NoError(t, err)
		require.NoError(t, f.companies.Delete(context.Background(), cs[0].ID))

		f.drain(t)

		dead := f.storage.DeadTasks()
		require.Len(t, dead, 1)
		assert.Contains(t, dead[0].Error, tenant.ErrTenantNotFound.Error())
		_, ok := f.jobs.UserCount(cs[0].ID)
		assert.False(t, ok)
	})

	t.Run("periodic task enqueues for every company", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		cs := f.seed(t, 1, 1, 1)

		sched, err := queue.NewScheduler(f.storage, queue.WithCheckInterval(time.Hour))
		require.NoError(t, err)
		require.NoError(t, sched.AddTask(maintenance.RecountTaskName, queue.Every(time.Nanosecond)))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- sched.Run(ctx) }()
		require.Eventually(t, func() bool { return len(f.storage.Tasks()) == 1 }, time.Second, 5*time.Millisecond)
		cancel()
		require.NoError(t, <-done)

		require.Eventually(t, func() bool {
			for {
				ok, err := f.worker.ProcessNext(context.Background())
				if err != nil || !ok {
					break
				}
			}
			_, ok := f.jobs.UserCount(cs[2].ID)
			return ok
		}, time.Second, 5*time.Millisecond)
	})
}
