package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores and retrieves tenant", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()

		acme := createTestTenant(1, "acme")
		cache.Set(ctx, 1, acme, time.Hour)

		got, ok := cache.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, acme, got)

		_, ok = cache.Get(ctx, 2)
		assert.False(t, ok)
	})

	t.Run("respects TTL expiration", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()

		cache.Set(ctx, 1, createTestTenant(1, "acme"), 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)

		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(2)
		defer cache.Close()

		cache.Set(ctx, 1, createTestTenant(1, "a"), time.Hour)
		cache.Set(ctx, 2, createTestTenant(2, "b"), time.Hour)
		_, _ = cache.Get(ctx, 1)
		cache.Set(ctx, 3, createTestTenant(3, "c"), time.Hour)

		_, ok := cache.Get(ctx, 2)
		assert.False(t, ok, "2 was least recently used")
		_, ok = cache.Get(ctx, 1)
		assert.True(t, ok)
		_, ok = cache.Get(ctx, 3)
		assert.True(t, ok)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(10)
		defer cache.Close()

		cache.Set(ctx, 1, createTestTenant(1, "acme"), time.Hour)
		cache.Delete(ctx, 1)

		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache(0)
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := tenant.NewNoOpCache()
	cache.Set(context.Background(), 1, createTestTenant(1, "acme"), time.Hour)

	_, ok := cache.Get(context.Background(), 1)
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}
