package scope

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// DefaultColumn is the tenant foreign key column.
const DefaultColumn = "tenant_id"

// IDFunc reports the tenant active in ctx.
type IDFunc func(ctx context.Context) (int64, bool)

// Policy decides what a read does when no tenant is active.
type Policy int

const (
	// FailClosed makes reads match nothing.
	FailClosed Policy = iota
	// FailWithError makes reads return ErrNoActiveTenant.
	FailWithError
)

// Option configures a Filter.
type Option func(*Filter)

// WithColumn overrides the tenant column name.
func WithColumn(column string) Option {
	return func(f *Filter) {
		if column != "" {
			f.column = column
		}
	}
}

// WithIDFunc overrides how the active tenant is read from the context.
func WithIDFunc(fn IDFunc) Option {
	return func(f *Filter) {
		if fn != nil {
			f.idFunc = fn
		}
	}
}

// WithPolicy sets the read policy for contexts without a tenant.
func WithPolicy(p Policy) Option {
	return func(f *Filter) {
		f.policy = p
	}
}

// WithLogger sets a custom logger for the filter.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func defaultIDFunc(ctx context.Context) (int64, bool) {
	return tenant.IDFromContext(ctx)
}
