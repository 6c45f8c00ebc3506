package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"setlist/internal/pipeline"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Recurring enrichment",
	}

	scheduleCmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Enrich one batch per interval until every song is processed",
		Long: "start runs in the foreground. It steps immediately, then once per " +
			"scheduler.interval_seconds, and exits when the dataset is complete, when " +
			"`setlist schedule stop` is run from another shell, or on Ctrl-C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(ctx, cmd)
		},
	})

	scheduleCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop a running schedule after its current step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				if err := p.Scheduler().Stop(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schedule stopped")
				return nil
			})
		},
	})

	scheduleCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether a schedule is active",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				active, err := p.Scheduler().IsActive(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schedule active: %s\n", yesNo(active))
				return nil
			})
		},
	})

	return scheduleCmd
}

func runSchedule(ctx *commandContext, cmd *cobra.Command) error {
	return ctx.withPipeline(func(p *pipeline.Pipeline) error {
		runCtx, cancel := signalContext(cmd)
		defer cancel()

		sched := p.Scheduler()
		if err := sched.Start(runCtx); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Schedule running; press Ctrl-C to stop")

		select {
		case <-sched.Done():
		case <-runCtx.Done():
		}
		if err := sched.Stop(context.WithoutCancel(runCtx)); err != nil {
			return err
		}

		st, err := p.Status(context.WithoutCancel(runCtx), 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Schedule ended at %d/%d\n", min(st.Cursor, st.Total), st.Total)
		return nil
	})
}
