// Package queue provides a storage-agnostic task queue used to run background
// work, most of it on behalf of a single tenant.
//
// The package is organised around three components:
//
//   - Enqueuer  adds one-time tasks to the queue
//   - Scheduler turns Schedule definitions into periodic tasks
//   - Worker    claims pending tasks and dispatches them to a Handler
//
// Components talk to persistence only through the Storage interface.
// MemoryStorage backs tests and local development, PgStorage backs production.
//
// # Tenant tasks
//
// A task that belongs to a tenant carries only the tenant id in its payload.
// NewTenantTaskHandler reloads the tenant when the task executes and runs the
// handler with that tenant active, so scoped repositories behave exactly as
// they do inside an HTTP request:
//
//	type RecountUsers struct {
//	    queue.TenantPayload
//	}
//
//	h := queue.NewTenantTaskHandler(companies, func(ctx context.Context, p RecountUsers) error {
//	    n, err := users.Count(ctx, nil) // scoped to p.TenantID
//	    ...
//	})
//
//	_ = enqueuer.Enqueue(ctx, RecountUsers{queue.ForTenant(t.ID)})
//
// A tenant that no longer exists is a permanent failure: the task moves to
// the dead letter queue without further retries.
//
// # Errors
//
// Handlers signal non-retryable failures by wrapping the error with Permanent.
// All other errors are retried until MaxRetries is exhausted.
package queue
