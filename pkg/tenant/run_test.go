package tenant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("tenant is active only during work", func(t *testing.T) {
		t.Parallel()

		acme := createTestTenant(1, "acme")
		var inner context.Context

		err := tenant.Run(context.Background(), acme, func(ctx context.Context) error {
			inner = ctx
			got, ok := tenant.FromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, acme, got)
			return nil
		})
		require.NoError(t, err)

		_, ok := tenant.FromContext(inner)
		assert.False(t, ok, "cell must be cleared after work returns")
	})

	t.Run("returns work result", func(t *testing.T) {
		t.Parallel()

		n, err := tenant.RunScoped(context.Background(), createTestTenant(3, "acme"), func(ctx context.Context) (int64, error) {
			id, _ := tenant.IDFromContext(ctx)
			return id * 10, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(30), n)
	})

	t.Run("propagates work error and still clears", func(t *testing.T) {
		t.Parallel()

		workErr := errors.New("boom")
		var inner context.Context

		err := tenant.Run(context.Background(), createTestTenant(1, "acme"), func(ctx context.Context) error {
			inner = ctx
			return workErr
		})
		assert.ErrorIs(t, err, workErr)

		_, ok := tenant.FromContext(inner)
		assert.False(t, ok)
	})

	t.Run("re-raises panic after clearing", func(t *testing.T) {
		t.Parallel()

		var inner context.Context
		assert.PanicsWithValue(t, "kaboom", func() {
			_ = tenant.Run(context.Background(), createTestTenant(1, "acme"), func(ctx context.Context) error {
				inner = ctx
				panic("kaboom")
			})
		})

		_, ok := tenant.FromContext(inner)
		assert.False(t, ok)
	})

	t.Run("does not run work on cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := tenant.Run(ctx, createTestTenant(1, "acme"), func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("clears when context is cancelled during work", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var inner context.Context

		err := tenant.Run(ctx, createTestTenant(1, "acme"), func(ctx context.Context) error {
			inner = ctx
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)

		_, ok := tenant.FromContext(inner)
		assert.False(t, ok)
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		t.Parallel()

		err := tenant.Run(context.Background(), nil, func(context.Context) error {
			t.Error("work should not be called")
			return nil
		})
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("nested run shadows outer tenant", func(t *testing.T) {
		t.Parallel()

		outer := createTestTenant(1, "acme")
		nested := createTestTenant(2, "globex")

		err := tenant.Run(context.Background(), outer, func(ctx context.Context) error {
			err := tenant.Run(ctx, nested, func(ctx context.Context) error {
				id, _ := tenant.IDFromContext(ctx)
				assert.Equal(t, int64(2), id)
				return nil
			})
			require.NoError(t, err)

			id, ok := tenant.IDFromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, int64(1), id)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("goroutine outliving the unit sees no tenant", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		observed := make(chan bool)

		err := tenant.Run(context.Background(), createTestTenant(1, "acme"), func(ctx context.Context) error {
			go func() {
				<-release
				_, ok := tenant.FromContext(ctx)
				observed <- ok
			}()
			return nil
		})
		require.NoError(t, err)

		close(release)
		assert.False(t, <-observed)
	})
}
