// Package ratelimiter implements token bucket rate limiting for HTTP
// handlers, backed by process memory or Redis.
//
// Buckets are keyed per request by a KeyFunc. ByTenant gives every company
// its own bucket, so one busy company cannot starve the others; ByClientIP
// throttles anonymous endpoints such as login.
//
//	limiter, _ := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.PerMinute(600))
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByTenant(), onError))
package ratelimiter
