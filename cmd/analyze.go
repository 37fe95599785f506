package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
	"github.com/giantswarm/fewshot-bench/internal/report"
	"github.com/giantswarm/fewshot-bench/internal/results"
)

func newAnalyzeCmd() *cobra.Command {
	var noWrite bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score recorded results and print summary tables",
		Long: `Score every recorded response for correctness (expected answer patterns) and
format adherence (LaTeX, boxed answers, step labels, tables), print tables by
condition, domain, problem and model, and write the analysis file.

If the results file does not exist, nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			collection, err := results.Load(d.cfg.ResultsFile)
			if err != nil {
				if errors.Is(err, results.ErrNotFound) {
					_, _ = fmt.Fprintf(out, "%s no results file at %s; run 'fewshot-bench run' first.\n",
						warnStatus("Nothing to analyze:"), d.cfg.ResultsFile)
					return nil
				}
				return err
			}

			a := analysis.Analyze(collection, d.bank, analysis.Conditions(d.cfg.Shots))
			if err := report.Render(out, a); err != nil {
				return err
			}

			if noWrite {
				return nil
			}
			if err := analysis.WriteFile(d.cfg.AnalysisFile, a); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", okStatus("Analysis written to"), d.cfg.AnalysisFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noWrite, "no-write", false, "Print the tables without writing the analysis file")

	return cmd
}
