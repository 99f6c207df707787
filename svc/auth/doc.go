// Package auth authenticates requests and maps them to a company.
//
// Register creates a company together with its first user. Login checks a
// password and issues an HS256 bearer token carrying the user id and the
// company id. Authenticate turns that token back into a Principal, and
// TenantResolver feeds the principal's company to tenant.Middleware:
//
//	r.Use(auth.Authenticate(svc, onError))
//	r.Use(tenant.Middleware(auth.TenantResolver(), companies))
package auth
