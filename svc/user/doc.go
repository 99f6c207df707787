// Package user manages users, the tenant-owned entity of the system.
//
// Every Service method except FindForLogin runs against the tenant active
// in ctx. Creating a user outside a tenant unit fails with
// scope.ErrNoActiveTenant, and reads outside one return nothing.
package user
