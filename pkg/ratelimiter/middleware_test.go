package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func newLimiter(t *testing.T, n int) *ratelimiter.Bucket {
	t.Helper()

	store := ratelimiter.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	b, err := ratelimiter.NewBucket(store, ratelimiter.PerMinute(n))
	require.NoError(t, err)
	return b
}

func tooMany(w http.ResponseWriter, _ *http.Request, err error) {
	if errors.Is(err, ratelimiter.ErrLimited) {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func TestMiddlewareByClientIP(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(newLimiter(t, 1), ratelimiter.ByClientIP(), tooMany)(okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		r.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	first := send("192.0.2.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := send("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("192.0.2.2").Code)
}

func TestMiddlewareByTenant(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(newLimiter(t, 1), ratelimiter.ByTenant(), tooMany)(okHandler)

	send := func(id int64) int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users", nil)
		if id == 0 {
			h.ServeHTTP(w, r)
			return w.Code
		}
		err := tenant.Run(r.Context(), &tenant.Tenant{ID: id}, func(ctx context.Context) error {
			h.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
		require.NoError(t, err)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(1))
	assert.Equal(t, http.StatusTooManyRequests, send(1))
	assert.Equal(t, http.StatusOK, send(2), "each company has its own bucket")

	assert.Equal(t, http.StatusOK, send(0))
	assert.Equal(t, http.StatusOK, send(0), "requests without a company are not limited")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func TestMiddlewareStoreFailure(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(failingLimiter{}, ratelimiter.ByClientIP(), tooMany)(okHandler)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
