package scope

import "errors"

var (
	// ErrNoActiveTenant is returned when a write to a tenant-owned entity
	// happens outside of any tenant unit.
	ErrNoActiveTenant = errors.New("no active tenant")

	// ErrUnscopedWithoutCapability is returned when unscoped access is
	// requested without a valid Bypass.
	ErrUnscopedWithoutCapability = errors.New("unscoped access requires a bypass grant")

	// ErrCrossTenantWrite is returned when an entity owned by one tenant is
	// written while another tenant is active.
	ErrCrossTenantWrite = errors.New("entity belongs to another tenant")

	// ErrNotFound is returned when no row matches within the active scope.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("record already exists")

	// ErrStore wraps unexpected storage failures.
	ErrStore = errors.New("storage failure")
)
