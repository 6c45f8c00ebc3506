package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"setlist/internal/batch"
	"setlist/internal/pipeline"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Rebuild the working dataset from the catalogue folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				report, err := p.Scan(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Songs: %d\n", len(report.Songs))
				fmt.Fprintf(out, "Preserved from %s: %d\n", valueOrNone(report.Prior), report.Preserved)
				if len(report.Skipped) > 0 {
					fmt.Fprintf(out, "Skipped: %d\n", len(report.Skipped))
					for _, name := range report.Skipped {
						fmt.Fprintf(out, "  %s\n", name)
					}
				}
				fmt.Fprintln(out, "Cursor reset to the first song")
				return nil
			})
		},
	}
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich the next batch of songs",
		Long: "Enrich processes the next batch of songs from the persisted cursor. With --watch " +
			"it keeps stepping on the configured interval until every song is processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runSchedule(ctx, cmd)
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				runCtx, cancel := signalContext(cmd)
				defer cancel()
				res, err := p.EnrichBatch(runCtx)
				if err != nil {
					return err
				}
				printStep(cmd, res)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep enriching on the schedule interval until complete")
	return cmd
}

func printStep(cmd *cobra.Command, res batch.StepResult) {
	out := cmd.OutOrStdout()
	if res.Complete && res.Start == res.End {
		fmt.Fprintf(out, "All %d songs already processed\n", res.Total)
		return
	}
	fmt.Fprintf(out, "Processed songs %d-%d of %d (enriched %d, skipped %d)\n",
		res.Start+1, res.End, res.Total, res.Enriched, res.Skipped)
	switch {
	case res.Interrupted:
		fmt.Fprintf(out, "Interrupted; next run resumes at song %d\n", res.Cursor+1)
	case res.Complete:
		fmt.Fprintln(out, "All songs processed")
	}
}

func newResetCursorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-cursor",
		Short: "Restart enrichment from the first song",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				if err := p.ResetCursor(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cursor reset")
				return nil
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var runs int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show enrichment progress and recent batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				st, err := p.Status(cmd.Context(), runs)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Progress: %d/%d\n", min(st.Cursor, st.Total), st.Total)
				fmt.Fprintf(out, "Sources: %s\n", valueOrNone(strings.Join(st.Sources, ", ")))
				fmt.Fprintf(out, "Schedule active: %s\n", yesNo(st.SchedulerActive))
				fmt.Fprintf(out, "Latest snapshot: %s\n", valueOrNone(st.LatestSnapshot))
				if len(st.Runs) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(st.Runs))
				for _, r := range st.Runs {
					rows = append(rows, []string{
						r.StartedAt.Local().Format("2006-01-02 15:04:05"),
						fmt.Sprintf("%d-%d", r.Start+1, r.End),
						strconv.Itoa(r.Enriched),
						strconv.Itoa(r.Skipped),
						yesNo(r.Complete),
					})
				}
				writeTable(out, []string{"Started", "Songs", "Enriched", "Skipped", "Complete"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft})
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of recent batch runs to show")
	return cmd
}

func newFinalizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize",
		Short: "Write the working dataset as the next catalogue version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				name, n, err := p.Finalize(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d songs to %s\n", n, name)
				return nil
			})
		},
	}
}

func newExportReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export-review",
		Short: "Write the review CSV for the working dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				name, n, err := p.ExportReview(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d songs to %s\n", n, name)
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var query, from string
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List catalogue songs whose title or artist contains the query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query = args[0]
			}
			target, err := pipeline.ParseTarget(from)
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				songs, name, err := p.List(cmd.Context(), query, target)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(songs))
				for _, s := range songs {
					rows = append(rows, []string{
						s.Title,
						s.Artist,
						s.Year,
						strings.Join(s.Tags.Genre, ", "),
						string(s.Tags.Voice),
						string(s.Tags.Origin),
						s.Source,
					})
				}
				out := cmd.OutOrStdout()
				writeTable(out, []string{"Title", "Artist", "Year", "Genres", "Voice", "Origin", "Source"}, rows, nil)
				if isTerminal(out) {
					fmt.Fprintf(out, "%d songs from %s\n", len(songs), name)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive title or artist filter")
	cmd.Flags().StringVar(&from, "from", "latest", "Dataset to list: latest or wip")
	return cmd
}

func newCleanGenreCommand(ctx *commandContext) *cobra.Command {
	var label, target string
	cmd := &cobra.Command{
		Use:   "clean-genre",
		Short: "Remove a genre label from every song",
		Long: "clean-genre removes one label from every song. Cleaning the latest snapshot " +
			"writes a new catalogue version instead of editing the existing one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := pipeline.ParseTarget(target)
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				report, err := p.CleanGenre(cmd.Context(), label, t)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if report.Written == "" {
					fmt.Fprintf(out, "No songs carried %q; nothing written\n", report.Label)
					return nil
				}
				fmt.Fprintf(out, "Removed %q from %d songs; wrote %s\n", report.Label, report.Affected, report.Written)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", pipeline.DefaultCleanLabel, "Genre label to remove")
	cmd.Flags().StringVar(&target, "target", "wip", "Dataset to clean: wip or latest")
	return cmd
}

func valueOrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
