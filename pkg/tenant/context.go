package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithCell starts a new execution unit: it binds a fresh, empty cell to the
// returned context. Anything derived from the returned context shares the cell.
func WithCell(ctx context.Context) (context.Context, *Cell) {
	cell := &Cell{}
	return context.WithValue(ctx, contextKey{}, cell), cell
}

// CellFromContext returns the cell bound to ctx, if any.
func CellFromContext(ctx context.Context) (*Cell, bool) {
	cell, ok := ctx.Value(contextKey{}).(*Cell)
	return cell, ok && cell != nil
}

// FromContext returns the tenant active in ctx.
// Returns nil, false outside of a unit or after the unit was torn down.
func FromContext(ctx context.Context) (*Tenant, bool) {
	cell, ok := CellFromContext(ctx)
	if !ok {
		return nil, false
	}
	return cell.Get()
}

// IDFromContext returns the id of the tenant active in ctx.
func IDFromContext(ctx context.Context) (int64, bool) {
	cell, ok := CellFromContext(ctx)
	if !ok {
		return 0, false
	}
	return cell.CurrentID()
}

// MustFromContext returns the tenant active in ctx.
// Panics if there is none. Use this only in code that is unreachable
// without a tenant, such as handlers mounted behind Middleware.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return t
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts tenant ID from context
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.Int64("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}
