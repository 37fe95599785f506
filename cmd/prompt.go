package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/prompt"
)

func newPromptCmd() *cobra.Command {
	var shots int

	cmd := &cobra.Command{
		Use:   "prompt <problem-id>",
		Short: "Print the prompt sent for a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shots < 0 {
				return fmt.Errorf("--shots must not be negative, got %d", shots)
			}
			d, err := loadDeps()
			if err != nil {
				return err
			}

			p, ok := d.bank.Problem(args[0])
			if !ok {
				return &benchmark.UnknownProblemError{ID: args[0]}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), prompt.ForBank(d.bank, p, shots))
			return err
		},
	}

	cmd.Flags().IntVar(&shots, "shots", 0, "Number of worked examples to include")

	return cmd
}
