package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List benchmark problems and worked examples per domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			for _, domain := range benchmark.Domains() {
				problems, err := d.bank.Select(nil, []benchmark.Domain{domain})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "%s (%d problems, %d worked examples)\n",
					domain, len(problems), len(d.bank.ExamplesFor(domain)))
				for _, p := range problems {
					_, _ = fmt.Fprintf(out, "  - %s [%s] %s\n", p.ID, p.Difficulty, p.Prompt)
				}
				_, _ = fmt.Fprintln(out)
			}

			_, _ = fmt.Fprintf(out, "Models: %v\n", d.registry.Names())
			return nil
		},
	}

	return cmd
}
