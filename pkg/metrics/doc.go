// Package metrics exposes Prometheus instrumentation for HTTP traffic,
// tenant iteration runs and queue tasks.
//
// Metrics are registered on a private registry so that independent instances
// can coexist in tests:
//
//	m := metrics.New("tenantkit")
//	r.Use(m.Instrument)
//	r.Handle("/metrics", m.Handler())
//
//	it := tenant.NewIterator(companies, tenant.WithResultObserver(m.ObserveTenantRun))
//	w, _ := queue.NewWorker(storage, queue.WithTaskObserver(m.ObserveTask))
package metrics
