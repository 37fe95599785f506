package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/fewshot-bench/internal/config"
)

var (
	cfgFile string

	// v holds the merged configuration: flags > env > config file > defaults.
	v = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "fewshot-bench",
	Short: "Zero-shot vs few-shot prompting benchmark for STEM problems",
	Long: `fewshot-bench measures how worked examples in a prompt change a model's
answers to mathematics, physics, chemistry and biology problems.

'run' sends every problem to each model with 0, 1, 3 and 5 worked examples and
records every response to a JSON results file. 'analyze' scores the results for
correctness and format adherence, prints summary tables and writes an analysis
file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

var (
	buildCommit = "unknown"
	buildDate   = "unknown"
)

// SetVersion sets the version for the root command.
func SetVersion(version string) {
	rootCmd.Version = version
}

// SetBuildInfo sets the commit and build date for the version command.
func SetBuildInfo(commit, date string) {
	buildCommit = commit
	buildDate = date
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "fewshot-bench version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPromptCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default: ./fewshot-bench.yaml if present)")
	flags.String("results-file", config.DefaultResultsFile, "Path of the JSON results file")
	flags.String("analysis-file", config.DefaultAnalysisFile, "Path of the JSON analysis file")
	flags.String("data-dir", "", "Directory with problems.yaml, examples.yaml and answers.yaml overriding the built-in bank")

	_ = v.BindPFlag("results_file", flags.Lookup("results-file"))
	_ = v.BindPFlag("analysis_file", flags.Lookup("analysis-file"))
	_ = v.BindPFlag("data_dir", flags.Lookup("data-dir"))
}
