package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func maintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Run work once for every company",
	}
	cmd.AddCommand(recountCmd())
	return cmd
}

func recountCmd() *cobra.Command {
	var (
		failFast bool
		after    int64
		inline   bool
		reason   string
	)

	cmd := &cobra.Command{
		Use:   "recount-users",
		Short: "Recount users of every company",
		Long: "Enqueues a recount task per company for the worker. With --inline the\n" +
			"counts are computed in this process instead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := newLogger()

			a, err := newApp(ctx, log)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := []tenant.IteratorOption{
				tenant.WithFailFast(failFast),
				tenant.WithStartAfter(after),
			}

			var report tenant.Report
			if inline {
				report, err = a.runner.ForAll(ctx, func(ctx context.Context, c *tenant.Tenant) error {
					n, err := a.users.Count(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\n", c.ID, c.Name, n)
					return nil
				}, opts...)
			} else {
				report, err = a.runner.EnqueueRecount(ctx, reason, opts...)
			}
			return sweepResult(ctx, log, report, err)
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing company")
	cmd.Flags().Int64Var(&after, "after", 0, "resume after this company id")
	cmd.Flags().BoolVar(&inline, "inline", false, "count in this process instead of enqueueing tasks")
	cmd.Flags().StringVar(&reason, "reason", "manual", "reason recorded on enqueued tasks")
	return cmd
}

// sweepResult logs how a sweep ended. err is set only when the sweep stopped
// early; per-company failures are reported without a resume point.
func sweepResult(ctx context.Context, log *slog.Logger, report tenant.Report, err error) error {
	if err != nil {
		log.ErrorContext(ctx, "sweep aborted",
			slog.Int64("resume_after", report.LastID),
			slog.String("error", err.Error()))
		return err
	}
	if failed := report.Err(); failed != nil {
		log.WarnContext(ctx, "sweep finished with failures",
			slog.Int("failed", len(report.Failures)),
			slog.String("error", failed.Error()))
		return failed
	}
	return nil
}
