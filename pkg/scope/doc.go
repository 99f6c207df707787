// Package scope restricts data access to the tenant active in the context.
//
// A Filter narrows every read, update and delete of a tenant-owned entity to
// rows whose tenant_id equals the active tenant, and stamps tenant_id on
// create. Domain code never passes the tenant explicitly:
//
//	users := scope.NewRepository(store, scope.NewFilter())
//	err := tenant.Run(ctx, company, func(ctx context.Context) error {
//		return users.Create(ctx, &User{Name: "Ann"}) // tenant_id = company.ID
//	})
//
// Reads with no active tenant fail closed: they match nothing. Writes with no
// active tenant return ErrNoActiveTenant.
//
// Crossing tenant boundaries requires a Bypass minted with Grant at
// application start-up and handed only to the collaborators that need it,
// such as login by email or loading the tenant of a background job:
//
//	byEmail, err := users.Unscoped(loginGrant)
//
// Two Store implementations are provided: PgStore builds SQL with squirrel
// and scans rows with pgx, MemoryStore keeps rows in memory for tests and
// local development.
package scope
