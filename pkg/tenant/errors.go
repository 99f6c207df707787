package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found or the
	// principal of a request has no tenant.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNoTenantInContext is returned when no tenant is active in the context.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrWorkPanicked wraps a panic recovered while iterating tenants.
	ErrWorkPanicked = errors.New("tenant work panicked")

	// ErrListTenants is returned when the iterator fails to fetch a batch.
	ErrListTenants = errors.New("failed to list tenants")
)
