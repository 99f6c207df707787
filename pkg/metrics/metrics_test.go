package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestInstrument(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
	}

	out := scrape(t, m)
	assert.Contains(t, out, `test_http_requests_total{method="GET",route="/users/{id}",status="404"} 2`)
	assert.NotContains(t, out, `route="/users/1"`)
}

func TestObservers(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	m.ObserveTenantRun(1, nil, time.Millisecond)
	m.ObserveTenantRun(2, errors.New("boom"), time.Millisecond)
	m.ObserveTenantRun(3, nil, time.Millisecond)
	m.ObserveTask("users.recount", nil, time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `test_tenant_runs_total{outcome="ok"} 2`)
	assert.Contains(t, out, `test_tenant_runs_total{outcome="error"} 1`)
	assert.Contains(t, out, `test_queue_tasks_total{outcome="ok",task="users.recount"} 1`)
	assert.Contains(t, out, "test_tenant_run_duration_seconds_count 3")
}
