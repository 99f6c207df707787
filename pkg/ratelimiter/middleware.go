package ratelimiter

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/clientip"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// KeyFunc returns the bucket key of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByTenant keys requests by the active company.
func ByTenant() KeyFunc {
	return func(r *http.Request) string {
		id, ok := tenant.IDFromContext(r.Context())
		if !ok {
			return ""
		}
		return "tenant:" + strconv.FormatInt(id, 10)
	}
}

// ByClientIP keys requests by client address.
func ByClientIP() KeyFunc {
	return func(r *http.Request) string {
		if ip := clientip.GetIP(r); ip != "" {
			return "ip:" + ip
		}
		return ""
	}
}

// Limiter is satisfied by *Bucket.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Middleware limits requests per key. Denied requests, and store failures,
// are passed to onError; denied ones with ErrLimited and the X-RateLimit
// and Retry-After headers already set.
func Middleware(l Limiter, key KeyFunc, onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), k)
			if err != nil {
				onError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				secs := int(res.RetryAfter(time.Now()).Round(time.Second) / time.Second)
				h.Set("Retry-After", strconv.Itoa(max(secs, 1)))
				onError(w, r, ErrLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
