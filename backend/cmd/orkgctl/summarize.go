package main

import (
	"context"

	"github.com/spf13/cobra"

	"orkg-backend/backend/internal/app"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

var (
	summarizeField            string
	summarizeIncludeSubfields bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print aggregated views of the graph",
}

var summarizeBenchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "List benchmarked research problems with paper, dataset and code counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var field ids.ThingID
		if summarizeField != "" {
			parsed, err := ids.ParseThingID(summarizeField)
			if err != nil {
				return err
			}
			field = parsed
		}
		return withRuntime(cmd.Context(), false, func(rt *app.Runtime) error {
			research := app.NewServices(rt.Stores, m).Research
			fetch := func(ctx context.Context, req paging.Request) (paging.Page[graph.BenchmarkSummary], error) {
				if field.IsZero() {
					return research.BenchmarkSummaries(ctx, req)
				}
				return research.BenchmarkSummariesOfField(ctx, field, summarizeIncludeSubfields, req)
			}
			count := 0
			err := paging.ForEach(cmd.Context(), fetch, func(s graph.BenchmarkSummary) error {
				count++
				cmd.Printf("%s\t%s\tpapers=%d datasets=%d codes=%d\n",
					s.ResearchProblem.ID, s.ResearchProblem.Label, s.TotalPapers, s.TotalDatasets, s.TotalCodes)
				return nil
			}, nil, paging.DefaultChunkSize)
			if err != nil {
				return err
			}
			cmd.Printf("%d research problems.\n", count)
			return nil
		})
	},
}

func init() {
	summarizeBenchmarksCmd.Flags().StringVar(&summarizeField, "field", "", "restrict to a research field id")
	summarizeBenchmarksCmd.Flags().BoolVar(&summarizeIncludeSubfields, "include-subfields", false, "include the subfields of --field")
	summarizeCmd.AddCommand(summarizeBenchmarksCmd)
	rootCmd.AddCommand(summarizeCmd)
}
