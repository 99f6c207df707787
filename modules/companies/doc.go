// Package companies exposes company administration and the caller's own
// company over HTTP.
//
// Handle serves the /companies admin API, which is not tenant-scoped and is
// guarded by RequireAdminKey. Me serves /me/company and must be mounted
// behind tenant.Middleware.
package companies
