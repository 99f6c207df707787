// Package httpserver runs an http.Server until its context is cancelled and
// then shuts it down gracefully. Run blocks, which makes it a natural member
// of an errgroup alongside the queue worker and scheduler:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// HealthCheckHandler serves liveness and readiness probes.
package httpserver
