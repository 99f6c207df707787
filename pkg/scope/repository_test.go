package scope_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/scope"
)

func TestRepository_TwoTenants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, notes := newNotes()

	// tenant 1 owns note 1, tenant 2 owns note 2
	require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
		return notes.Create(ctx, &note{Title: "first", Slug: "first"})
	}))
	require.NoError(t, within(ctx, 2, func(ctx context.Context) error {
		return notes.Create(ctx, &note{Title: "second", Slug: "second"})
	}))

	t.Run("each tenant sees only its rows", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			items, err := notes.List(ctx, scope.Query{})
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "first", items[0].Title)
			assert.Equal(t, int64(1), items[0].TenantID)
			return nil
		}))
		require.NoError(t, within(ctx, 2, func(ctx context.Context) error {
			items, err := notes.List(ctx, scope.Query{})
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "second", items[0].Title)
			return nil
		}))
	})

	t.Run("get by id of another tenant is not found", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			_, err := notes.Get(ctx, 2)
			assert.ErrorIs(t, err, scope.ErrNotFound)

			n, err := notes.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "first", n.Title)
			return nil
		}))
	})

	t.Run("reads without tenant return nothing", func(t *testing.T) {
		t.Parallel()

		items, err := notes.List(ctx, scope.Query{})
		require.NoError(t, err)
		assert.Empty(t, items)

		n, err := notes.Count(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = notes.Get(ctx, 1)
		assert.ErrorIs(t, err, scope.ErrNotFound)
	})

	t.Run("unscoped requires a grant", func(t *testing.T) {
		t.Parallel()

		_, err := notes.Unscoped(scope.Bypass{})
		assert.ErrorIs(t, err, scope.ErrUnscopedWithoutCapability)

		all, err := notes.Unscoped(scope.Grant("test"))
		require.NoError(t, err)

		items, err := all.List(ctx, scope.Query{})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		n, err := all.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		second, err := all.FindOne(ctx, sq.Eq{"slug": "second"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.TenantID)

		_, err = all.Get(ctx, 99)
		assert.ErrorIs(t, err, scope.ErrNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stamps active tenant", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		n := &note{Title: "a", Slug: "a"}
		require.NoError(t, within(ctx, 4, func(ctx context.Context) error {
			return notes.Create(ctx, n)
		}))
		assert.Equal(t, int64(4), n.TenantID)
		assert.NotZero(t, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
	})

	t.Run("fails without active tenant", func(t *testing.T) {
		t.Parallel()

		store, notes := newNotes()
		err := notes.Create(ctx, &note{Title: "a", Slug: "a"})
		assert.ErrorIs(t, err, scope.ErrNoActiveTenant)

		n, err := store.Count(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n, "nothing must be persisted")
	})

	t.Run("rejects explicit other tenant", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		err := within(ctx, 1, func(ctx context.Context) error {
			return notes.Create(ctx, &note{Title: "a", Slug: "a", Owned: scope.Owned{TenantID: 2}})
		})
		assert.ErrorIs(t, err, scope.ErrCrossTenantWrite)
	})

	t.Run("enforces unique columns", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			return notes.Create(ctx, &note{Slug: "dup"})
		}))
		err := within(ctx, 2, func(ctx context.Context) error {
			return notes.Create(ctx, &note{Slug: "dup"})
		})
		assert.ErrorIs(t, err, scope.ErrDuplicate)
	})
}

func TestRepository_UpdateDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("updates own row and keeps owner", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		n := &note{Title: "a", Slug: "a"}
		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			if err := notes.Create(ctx, n); err != nil {
				return err
			}
			n.Title = "renamed"
			if err := notes.Update(ctx, n); err != nil {
				return err
			}
			got, err := notes.Get(ctx, n.ID)
			require.NoError(t, err)
			assert.Equal(t, "renamed", got.Title)
			assert.Equal(t, int64(1), got.TenantID)
			assert.Equal(t, n.CreatedAt, got.CreatedAt)
			return nil
		}))
	})

	t.Run("cannot update or delete another tenant's row", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		n := &note{Title: "a", Slug: "a"}
		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			return notes.Create(ctx, n)
		}))

		require.NoError(t, within(ctx, 2, func(ctx context.Context) error {
			hijack := &note{ID: n.ID, Title: "mine now"}
			assert.ErrorIs(t, notes.Update(ctx, hijack), scope.ErrNotFound)
			assert.Equal(t, int64(2), hijack.TenantID)

			assert.ErrorIs(t, notes.Update(ctx, n), scope.ErrCrossTenantWrite)
			assert.ErrorIs(t, notes.Delete(ctx, n.ID), scope.ErrNotFound)
			return nil
		}))

		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			got, err := notes.Get(ctx, n.ID)
			require.NoError(t, err)
			assert.Equal(t, "a", got.Title)
			return nil
		}))
	})

	t.Run("writes without tenant fail", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		assert.ErrorIs(t, notes.Delete(ctx, 1), scope.ErrNoActiveTenant)
		assert.ErrorIs(t, notes.Update(ctx, &note{ID: 1}), scope.ErrNoActiveTenant)
	})

	t.Run("deletes own row", func(t *testing.T) {
		t.Parallel()

		_, notes := newNotes()
		require.NoError(t, within(ctx, 1, func(ctx context.Context) error {
			n := &note{Slug: "a"}
			require.NoError(t, notes.Create(ctx, n))
			require.NoError(t, notes.Delete(ctx, n.ID))
			assert.ErrorIs(t, notes.Delete(ctx, n.ID), scope.ErrNotFound)
			return nil
		}))
	})
}

func TestRepository_ConcurrentTenants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, notes := newNotes()

	var wg sync.WaitGroup
	for id := int64(1); id <= 4; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = within(ctx, id, func(ctx context.Context) error {
				for i := range 25 {
					assert.NoError(t, notes.Create(ctx, &note{Title: "x", Slug: fmt.Sprintf("%d-%d", id, i)}))
				}
				return nil
			})
		}(id)
	}
	wg.Wait()

	for id := int64(1); id <= 4; id++ {
		require.NoError(t, within(ctx, id, func(ctx context.Context) error {
			items, err := notes.List(ctx, scope.Query{})
			require.NoError(t, err)
			assert.Len(t, items, 25)
			for _, n := range items {
				assert.Equal(t, id, n.TenantID)
			}
			return nil
		}))
	}
}
