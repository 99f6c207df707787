package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/svc/maintenance"
)

func serveCmd() *cobra.Command {
	var withoutWorker bool
	var recountSchedule string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the queue worker and the scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := newLogger()

			a, err := newApp(ctx, log)
			if err != nil {
				return err
			}
			defer a.Close()

			var httpCfg httpserver.Config
			if err := config.Load(&httpCfg); err != nil {
				return err
			}
			var queueCfg queue.Config
			if err := config.Load(&queueCfg); err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(ctx)

			server := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
			g.Go(func() error { return server.Run(ctx, a.router()) })

			if !withoutWorker {
				worker, err := queue.NewWorkerFromConfig(a.queue, queueCfg,
					queue.WithWorkerLogger(log),
					queue.WithTaskObserver(a.metrics.ObserveTask),
				)
				if err != nil {
					return err
				}
				if err := worker.Register(a.jobs.Handlers()...); err != nil {
					return err
				}
				if err := worker.Register(a.runner.PeriodicHandler()); err != nil {
					return err
				}

				scheduler, err := queue.NewScheduler(a.queue,
					queue.WithCheckInterval(queueCfg.CheckInterval),
					queue.WithSchedulerLogger(log),
				)
				if err != nil {
					return err
				}
				schedule, err := parseSchedule(recountSchedule)
				if err != nil {
					return err
				}
				if err := scheduler.AddTask(maintenance.RecountTaskName, schedule); err != nil {
					return err
				}

				g.Go(func() error { return worker.Run(ctx) })
				g.Go(func() error { return scheduler.Run(ctx) })
			}

			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&withoutWorker, "without-worker", false, "serve HTTP only, do not process background tasks")
	cmd.Flags().StringVar(&recountSchedule, "recount-schedule", "daily@03:00", "schedule of the per-company user recount")
	return cmd
}
