// Package tenant carries the active tenant (company) through a single
// execution unit: an HTTP request, a background job or one iteration of a
// maintenance sweep.
//
// The active tenant lives in a Cell bound to a context.Context. A cell is
// created by whoever owns the unit's lifecycle, never by domain code, and is
// cleared when the unit ends. Run and RunScoped bundle that lifecycle:
//
//	err := tenant.Run(ctx, company, func(ctx context.Context) error {
//		return users.Create(ctx, u) // tenant_id stamped from ctx
//	})
//
// Units never share a cell. Concurrent requests each get their own, and a
// nested Run shadows the outer tenant only for the duration of the nested
// work.
//
// # HTTP
//
// Middleware resolves the tenant from the authenticated principal, installs
// it for the downstream handler and clears it afterwards. A request whose
// principal has no tenant is answered with 404.
//
// # Background work
//
// Iterator walks all tenants in id order, in batches, and runs the given
// work once per tenant with that tenant active. Failures are collected per
// tenant and do not stop the sweep unless WithFailFast is set.
//
// # Logging
//
// LoggerExtractor adds tenant_id to every slog record produced inside a
// unit when registered with logger.WithContextExtractors.
package tenant
