package tenant

import (
	"context"
	"time"
)

// Tenant is a company. Every tenant-scoped row belongs to exactly one.
type Tenant struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Loader fetches a single tenant by id.
// Implementations must return ErrTenantNotFound when no tenant matches.
type Loader interface {
	GetByID(ctx context.Context, id int64) (*Tenant, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, id int64) (*Tenant, error)

// GetByID implements Loader.
func (f LoaderFunc) GetByID(ctx context.Context, id int64) (*Tenant, error) {
	return f(ctx, id)
}

// Lister pages through all tenants ordered by id.
// ListAfter returns at most limit tenants whose id is greater than afterID.
type Lister interface {
	ListAfter(ctx context.Context, afterID int64, limit int) ([]*Tenant, error)
}
