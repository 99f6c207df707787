package company

import (
	"context"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Store persists companies.
type Store interface {
	Create(ctx context.Context, c *tenant.Tenant) error
	GetByID(ctx context.Context, id int64) (*tenant.Tenant, error)
	GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error)
	// List returns companies ordered by id.
	List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error)
	// ListAfter returns up to limit companies with id > afterID ordered by id.
	ListAfter(ctx context.Context, afterID int64, limit int) ([]*tenant.Tenant, error)
	Update(ctx context.Context, c *tenant.Tenant) error
	Delete(ctx context.Context, id int64) error
}
