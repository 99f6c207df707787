package scope

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Repository gives tenant-scoped access to a Store.
type Repository[T Entity] struct {
	store  Store[T]
	filter *Filter
	logger *slog.Logger
}

// NewRepository wraps store with filter. A nil filter uses NewFilter().
func NewRepository[T Entity](store Store[T], filter *Filter) *Repository[T] {
	if filter == nil {
		filter = NewFilter()
	}
	return &Repository[T]{store: store, filter: filter, logger: filter.logger}
}

// Create stamps e with the active tenant and inserts it.
func (r *Repository[T]) Create(ctx context.Context, e T) error {
	if err := r.filter.Stamp(ctx, e); err != nil {
		return err
	}
	return r.store.Insert(ctx, e)
}

// List returns the entities of the active tenant matching q.
func (r *Repository[T]) List(ctx context.Context, q Query) ([]T, error) {
	where, ok, err := r.filter.Scope(ctx, q.Where)
	if err != nil || !ok {
		return nil, err
	}
	q.Where = where
	return r.store.Select(ctx, q)
}

// FindOne returns the single entity of the active tenant matching where.
func (r *Repository[T]) FindOne(ctx context.Context, where sq.Eq) (T, error) {
	var zero T
	items, err := r.List(ctx, Query{Where: where, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Get returns the entity with the given id if it belongs to the active tenant.
func (r *Repository[T]) Get(ctx context.Context, id int64) (T, error) {
	return r.FindOne(ctx, sq.Eq{"id": id})
}

// Count returns how many entities of the active tenant match where.
func (r *Repository[T]) Count(ctx context.Context, where sq.Eq) (int64, error) {
	scoped, ok, err := r.filter.Scope(ctx, where)
	if err != nil || !ok {
		return 0, err
	}
	return r.store.Count(ctx, scoped)
}

// Update writes e if it belongs to the active tenant.
func (r *Repository[T]) Update(ctx context.Context, e T) error {
	if err := r.filter.Stamp(ctx, e); err != nil {
		return err
	}
	where, ok, err := r.writeScope(ctx, e.PrimaryKey())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	n, err := r.store.Update(ctx, where, e)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the entity with the given id if it belongs to the active tenant.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	where, ok, err := r.writeScope(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	n, err := r.store.Delete(ctx, where)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) writeScope(ctx context.Context, id int64) (sq.Eq, bool, error) {
	if _, err := r.filter.Require(ctx); err != nil {
		return nil, false, err
	}
	return r.filter.Scope(ctx, sq.Eq{"id": id})
}

// Unscoped returns read access across all tenants. b must come from Grant.
func (r *Repository[T]) Unscoped(b Bypass) (*Unscoped[T], error) {
	if !b.Valid() {
		return nil, ErrUnscopedWithoutCapability
	}
	return &Unscoped[T]{store: r.store, grant: b.Name(), logger: r.logger}, nil
}

// Unscoped reads entities regardless of the active tenant.
// Every call is logged with the grant name.
type Unscoped[T Entity] struct {
	store  Store[T]
	grant  string
	logger *slog.Logger
}

// List returns entities of any tenant matching q.
func (u *Unscoped[T]) List(ctx context.Context, q Query) ([]T, error) {
	u.audit(ctx, "list")
	return u.store.Select(ctx, q)
}

// FindOne returns the single entity of any tenant matching where.
func (u *Unscoped[T]) FindOne(ctx context.Context, where sq.Eq) (T, error) {
	var zero T
	u.audit(ctx, "find")
	items, err := u.store.Select(ctx, Query{Where: where, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Get returns the entity with the given id, whichever tenant owns it.
func (u *Unscoped[T]) Get(ctx context.Context, id int64) (T, error) {
	return u.FindOne(ctx, sq.Eq{"id": id})
}

// Count returns how many entities across all tenants match where.
func (u *Unscoped[T]) Count(ctx context.Context, where sq.Eq) (int64, error) {
	u.audit(ctx, "count")
	return u.store.Count(ctx, where)
}

func (u *Unscoped[T]) audit(ctx context.Context, op string) {
	u.logger.InfoContext(ctx, "unscoped access",
		logger.Component("scope"),
		logger.Grant(u.grant),
		slog.String("op", op))
}
