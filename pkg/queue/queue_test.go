package queue_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type sendWelcome struct {
	Email string `json:"email"`
}

type recountUsers struct {
	queue.TenantPayload
	Reason string `json:"reason"`
}

// companies is a tenant.Loader over a fixed set of tenants.
type companies struct {
	mu      sync.Mutex
	tenants map[int64]*tenant.Tenant
	err     error
}

func newCompanies(ts ...*tenant.Tenant) *companies {
	c := &companies{tenants: make(map[int64]*tenant.Tenant)}
	for _, t := range ts {
		c.tenants[t.ID] = t
	}
	return c
}

func (c *companies) GetByID(_ context.Context, id int64) (*tenant.Tenant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	t, ok := c.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (c *companies) remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tenants, id)
}

func newWorker(t testing.TB, storage queue.Storage, handlers ...queue.Handler) *queue.Worker {
	t.Helper()

	w, err := queue.NewWorker(storage)
	require.NoError(t, err)
	require.NoError(t, w.Register(handlers...))
	return w
}
