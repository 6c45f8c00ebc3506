package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"setlist/internal/overrides"
	"setlist/internal/pipeline"
)

func newApplyOverridesCommand(ctx *commandContext) *cobra.Command {
	var skipBuiltIn bool
	cmd := &cobra.Command{
		Use:   "apply-overrides",
		Short: "Apply hand-written genre corrections with fuzzy matching",
		Long: "apply-overrides resolves the built-in corrections and the entries of " +
			"catalog.overrides_file against the working dataset. Entries that match no song " +
			"are written to the unmatched CSV for review.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				report, err := p.ApplyOverrides(cmd.Context(), !skipBuiltIn)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Entries: %d\n", report.Entries)
				fmt.Fprintf(out, "Updated: %d\n", report.Updated)
				if report.NoGenres > 0 {
					fmt.Fprintf(out, "Without taxonomy genres: %d\n", report.NoGenres)
				}
				if len(report.IgnoredOrigins) > 0 {
					fmt.Fprintf(out, "Origin labels ignored: %d\n", len(report.IgnoredOrigins))
				}
				stages := []overrides.Stage{overrides.StageExact, overrides.StageSameTitle, overrides.StageSameTitleArtist, overrides.StageGlobal}
				rows := make([][]string, 0, len(stages))
				for _, s := range stages {
					if n := report.Matches[s]; n > 0 {
						rows = append(rows, []string{string(s), strconv.Itoa(n)})
					}
				}
				if len(rows) > 0 {
					writeTable(out, []string{"Stage", "Matched"}, rows, []columnAlignment{alignLeft, alignRight})
				}
				if report.UnmatchedFile != "" {
					fmt.Fprintf(out, "Unmatched: %d (see %s)\n", len(report.Unmatched), report.UnmatchedFile)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&skipBuiltIn, "no-builtin", false, "Skip the built-in correction list")
	return cmd
}

func newApplyGenreCSVCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply-genre-csv",
		Short: "Apply genre_overrides.csv by exact title and artist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				updated, err := p.ApplyGenreCSV(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d songs\n", updated)
				return nil
			})
		},
	}
}

