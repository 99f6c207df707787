package tenant

import "net/http"

// Resolver derives the tenant id of a request from its authenticated
// principal. It returns 0 and no error when the request has no principal or
// the principal is not associated with a tenant.
type Resolver interface {
	Resolve(r *http.Request) (int64, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (int64, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(r *http.Request) (int64, error) {
	return f(r)
}
