package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
	"github.com/giantswarm/fewshot-bench/internal/results"
	"github.com/giantswarm/fewshot-bench/internal/store"
)

func newExportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export results and scored records to a SQLite database",
		Long: `Write the recorded results and their scored analysis records to the
experiment_results and analysis_records tables of a SQLite database, replacing
their previous contents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}

			collection, err := results.Load(d.cfg.ResultsFile)
			if err != nil {
				return err
			}
			a := analysis.Analyze(collection, d.bank, analysis.Conditions(d.cfg.Shots))

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Export(cmd.Context(), collection, a.Records); err != nil {
				return err
			}

			rows, err := s.AccuracyByCondition(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Exported %d results to %s\n", len(collection), dbPath)
			for _, row := range rows {
				_, _ = fmt.Fprintf(out, "  %s: %d/%d correct\n", row.Condition, row.Correct, row.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "results/experiments.db", "SQLite database file")

	return cmd
}
