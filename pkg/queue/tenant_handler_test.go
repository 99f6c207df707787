package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestTenantTaskHandler(t *testing.T) {
	t.Parallel()

	acme := &tenant.Tenant{ID: 1, Name: "acme"}
	globex := &tenant.Tenant{ID: 2, Name: "globex"}

	t.Run("runs handler with the payload tenant active", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := queue.NewMemoryStorage()
		enq, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)

		var seen []int64
		var inner context.Context
		h := queue.NewTenantTaskHandler(newCompanies(acme, globex), func(ctx context.Context, p recountUsers) error {
			id, ok := tenant.IDFromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, p.TenantID, id)
			seen = append(seen, id)
			inner = ctx
			return nil
		})
		w := newWorker(t, storage, h)

		_, err = enq.Enqueue(ctx, recountUsers{TenantPayload: queue.ForTenant(2), Reason: "test"})
		require.NoError(t, err)
		_, err = enq.Enqueue(ctx, recountUsers{TenantPayload: queue.ForTenant(1)})
		require.NoError(t, err)

		for range 2 {
			ok, err := w.ProcessNext(ctx)
			require.NoError(t, err)
			require.True(t, ok)
		}

		assert.ElementsMatch(t, []int64{1, 2}, seen)
		_, ok := tenant.FromContext(inner)
		assert.False(t, ok, "tenant must be cleared after the job")
		_, ok = tenant.FromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("payload carries only the tenant id", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		enq, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)

		_, err = enq.Enqueue(context.Background(), recountUsers{TenantPayload: queue.ForTenant(7)})
		require.NoError(t, err)

		tasks := storage.Tasks()
		require.Len(t, tasks, 1)
		assert.JSONEq(t, `{"tenant_id":7,"reason":""}`, string(tasks[0].Payload))
	})

	t.Run("deleted tenant is a permanent failure", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := newCompanies(acme)
		storage := queue.NewMemoryStorage()
		enq, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)

		called := false
		w := newWorker(t, storage, queue.NewTenantTaskHandler(store, func(context.Context, recountUsers) error {
			called = true
			return nil
		}))

		_, err = enq.Enqueue(ctx, recountUsers{TenantPayload: queue.ForTenant(1)}, queue.WithMaxRetries(5))
		require.NoError(t, err)
		store.remove(1)

		ok, err := w.ProcessNext(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		assert.False(t, called)
		assert.Empty(t, storage.Tasks())
		dead := storage.DeadTasks()
		require.Len(t, dead, 1)
		assert.Contains(t, dead[0].Error, "tenant not found")
		assert.Equal(t, 1, dead[0].Attempts)
	})

	t.Run("missing tenant id is a permanent failure", func(t *testing.T) {
		t.Parallel()

		h := queue.NewTenantTaskHandler(newCompanies(acme), func(context.Context, recountUsers) error {
			t.Error("handler should not be called")
			return nil
		})

		err := h.Handle(context.Background(), []byte(`{"reason":"no tenant"}`))
		assert.ErrorIs(t, err, queue.ErrMissingTenant)
		assert.True(t, queue.IsPermanent(err))
	})

	t.Run("loader outage is retried", func(t *testing.T) {
		t.Parallel()

		store := newCompanies(acme)
		store.err = errors.New("connection refused")

		h := queue.NewTenantTaskHandler(store, func(context.Context, recountUsers) error { return nil })

		err := h.Handle(context.Background(), []byte(`{"tenant_id":1}`))
		require.Error(t, err)
		assert.False(t, queue.IsPermanent(err))
	})

	t.Run("handler error propagates and tenant is cleared", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var inner context.Context
		h := queue.NewTenantTaskHandler(newCompanies(acme), func(ctx context.Context, _ recountUsers) error {
			inner = ctx
			return boom
		})

		err := h.Handle(context.Background(), []byte(`{"tenant_id":1}`))
		assert.ErrorIs(t, err, boom)
		_, ok := tenant.FromContext(inner)
		assert.False(t, ok)
	})

	t.Run("registers under the payload type name", func(t *testing.T) {
		t.Parallel()

		h := queue.NewTenantTaskHandler(newCompanies(), func(context.Context, recountUsers) error { return nil })
		assert.Equal(t, "queue_test.recountUsers", h.Name())
	})
}

func TestCurrentTenant(t *testing.T) {
	t.Parallel()

	_, err := queue.CurrentTenant(context.Background())
	assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)

	err = tenant.Run(context.Background(), &tenant.Tenant{ID: 42}, func(ctx context.Context) error {
		p, err := queue.CurrentTenant(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), p.TenantID)
		return nil
	})
	require.NoError(t, err)
}
