package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// TenantTask is a payload that belongs to a single tenant.
type TenantTask interface {
	Tenant() int64
}

// TenantPayload carries the tenant id of a task. Embed it in payload types.
// Only the id is serialized; the tenant itself is reloaded on execution.
type TenantPayload struct {
	TenantID int64 `json:"tenant_id"`
}

// ForTenant returns the payload header for tenant id.
func ForTenant(id int64) TenantPayload {
	return TenantPayload{TenantID: id}
}

// CurrentTenant returns the payload header for the tenant active in ctx.
func CurrentTenant(ctx context.Context) (TenantPayload, error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return TenantPayload{}, tenant.ErrNoTenantInContext
	}
	return ForTenant(id), nil
}

func (p TenantPayload) Tenant() int64 { return p.TenantID }

// NewTenantTaskHandler reloads the payload's tenant through loader and runs
// handler with that tenant active. The tenant is cleared when handler returns,
// whatever the outcome.
//
// A missing tenant id or a tenant that no longer exists is a permanent
// failure. Other loader errors are retried.
func NewTenantTaskHandler[T TenantTask](loader tenant.Loader, handler TaskHandlerFunc[T]) Handler {
	return NewTaskHandler(func(ctx context.Context, payload T) error {
		id := payload.Tenant()
		if id <= 0 {
			return Permanent(ErrMissingTenant)
		}

		t, err := loader.GetByID(ctx, id)
		if err != nil {
			err = fmt.Errorf("queue: load tenant %d: %w", id, err)
			if errors.Is(err, tenant.ErrTenantNotFound) {
				return Permanent(err)
			}
			return err
		}

		return tenant.Run(ctx, t, func(ctx context.Context) error {
			return handler(ctx, payload)
		})
	})
}
