package scope

import (
	"context"
	"log/slog"
	"maps"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Filter narrows queries to the active tenant and stamps new entities.
type Filter struct {
	column string
	idFunc IDFunc
	policy Policy
	logger *slog.Logger
}

// NewFilter creates a Filter reading the tenant from tenant.IDFromContext.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		column: DefaultColumn,
		idFunc: defaultIDFunc,
		policy: FailClosed,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Column returns the tenant column name.
func (f *Filter) Column() string { return f.column }

// Scope returns a copy of where narrowed to the active tenant.
//
// ok is false when the query can match nothing: no tenant is active under
// FailClosed, or where already pins a different tenant. Callers must then
// skip the query and behave as if no rows matched.
func (f *Filter) Scope(ctx context.Context, where sq.Eq) (scoped sq.Eq, ok bool, err error) {
	id, active := f.idFunc(ctx)
	if !active {
		if f.policy == FailWithError {
			return nil, false, ErrNoActiveTenant
		}
		f.logger.WarnContext(ctx, "tenant-scoped read without active tenant, returning no rows",
			logger.Component("scope"))
		return nil, false, nil
	}

	scoped = make(sq.Eq, len(where)+1)
	maps.Copy(scoped, where)
	if pinned, exists := where[f.column]; exists && !sameID(pinned, id) {
		return nil, false, nil
	}
	scoped[f.column] = id

	return scoped, true, nil
}

// Stamp assigns the active tenant to a new entity. An entity that already
// names a different tenant is rejected.
func (f *Filter) Stamp(ctx context.Context, e Entity) error {
	id, active := f.idFunc(ctx)
	if !active {
		return ErrNoActiveTenant
	}
	switch owner := e.OwnerID(); {
	case owner == 0:
		e.SetOwner(id)
	case owner != id:
		f.logger.WarnContext(ctx, "rejected cross-tenant write",
			logger.Component("scope"),
			slog.Int64("entity_tenant_id", owner))
		return ErrCrossTenantWrite
	}
	return nil
}

// Require returns the active tenant id or ErrNoActiveTenant.
func (f *Filter) Require(ctx context.Context) (int64, error) {
	id, ok := f.idFunc(ctx)
	if !ok {
		return 0, ErrNoActiveTenant
	}
	return id, nil
}

func sameID(v any, id int64) bool {
	switch n := v.(type) {
	case int64:
		return n == id
	case int:
		return int64(n) == id
	case int32:
		return int64(n) == id
	default:
		return false
	}
}
