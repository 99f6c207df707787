// Package company manages companies, the tenants of the system.
//
// Companies are not tenant-scoped themselves: the store is read directly by
// the tenant middleware, background jobs and the iterator. Service
// implements tenant.Loader and tenant.Lister.
package company
