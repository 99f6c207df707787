package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics holds the collectors of a single process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	tenantRuns   *prometheus.CounterVec
	tenantRunDur prometheus.Histogram
	tasks        *prometheus.CounterVec
	taskDur      *prometheus.HistogramVec
}

// New creates and registers all collectors under namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tenantRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_runs_total",
			Help:      "Per-tenant units of work run by the tenant iterator.",
		}, []string{"outcome"}),
		tenantRunDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tenant_run_duration_seconds",
			Help:      "Duration of a single per-tenant unit of work.",
			Buckets:   prometheus.DefBuckets,
		}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_tasks_total",
			Help:      "Queue task executions by task name and outcome.",
		}, []string{"task", "outcome"}),
		taskDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_task_duration_seconds",
			Help:      "Queue task execution time in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpLatency,
		m.tenantRuns, m.tenantRunDur,
		m.tasks, m.taskDur,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument counts requests and observes latency. Requests are labelled
// with the chi route pattern, not the raw path, to keep ids out of labels.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.httpLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveTenantRun records one per-tenant unit of work. It matches
// tenant.ResultObserver.
func (m *Metrics) ObserveTenantRun(_ int64, err error, d time.Duration) {
	m.tenantRuns.WithLabelValues(outcome(err)).Inc()
	m.tenantRunDur.Observe(d.Seconds())
}

// ObserveTask records one queue task execution. It matches queue.TaskObserver.
func (m *Metrics) ObserveTask(name string, err error, d time.Duration) {
	m.tasks.WithLabelValues(name, outcome(err)).Inc()
	m.taskDur.WithLabelValues(name).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
