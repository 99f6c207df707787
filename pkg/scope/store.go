package scope

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// Query describes a read. Where is ANDed column equality; the tenant
// predicate is added by the Repository, never by the caller.
type Query struct {
	Where   sq.Eq
	OrderBy []string
	Limit   uint64
	Offset  uint64
}

// Store persists entities of one table. Implementations apply where exactly
// as given; tenant scoping happens above them.
type Store[T Entity] interface {
	// Insert persists e and fills its primary key.
	Insert(ctx context.Context, e T) error
	Select(ctx context.Context, q Query) ([]T, error)
	// Update writes e's mutable columns to rows matching where. tenant_id
	// is never changed.
	Update(ctx context.Context, where sq.Eq, e T) (int64, error)
	Delete(ctx context.Context, where sq.Eq) (int64, error)
	Count(ctx context.Context, where sq.Eq) (int64, error)
}
