package company

import (
	"errors"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

var (
	// ErrNotFound is tenant.ErrTenantNotFound so that HTTP and job
	// boundaries treat a missing company the same way.
	ErrNotFound   = tenant.ErrTenantNotFound
	ErrEmailTaken = errors.New("company: email already taken")
	ErrInvalid    = errors.New("company: invalid input")
	ErrStore      = errors.New("company: store failure")
)
