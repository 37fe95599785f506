package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/fewshot-bench/internal/config"
	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/results"
	"github.com/giantswarm/fewshot-bench/internal/runner"
)

func newRunCmd() *cobra.Command {
	var (
		check    bool
		resume   bool
		domains  []string
		problems []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark against the configured models",
		Long: `Send every selected problem to each selected model once per shot count and
record the responses.

The results file is rewritten after every experiment, so an interrupted batch
keeps everything recorded so far. Use --resume to continue such a batch.
With --check, a single verification prompt is sent to each model instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if check {
				return runCheck(ctx, out, d)
			}

			plan, unavailable, err := runner.BuildPlan(d.bank, d.registry, runner.Selection{
				Problems: problems,
				Domains:  domains,
				Models:   d.cfg.Models,
				Shots:    d.cfg.Shots,
			})
			printUnavailable(out, unavailable)
			if err != nil {
				return err
			}

			existing, err := results.Load(d.cfg.ResultsFile)
			if err != nil && !errors.Is(err, results.ErrNotFound) {
				return err
			}

			r := runner.NewRunner(d.bank, results.NewRecorder(d.cfg.ResultsFile, existing), d.cfg.Delay)
			r.SetResume(resume)
			r.SetProgressFunc(func(exp runner.Experiment, idx, total int) {
				_, _ = fmt.Fprintf(out, "[%d/%d] %s %s %s ... ", idx, total, exp.Problem.ID, exp.Condition(), exp.Model.Name())
			})
			r.SetResultFunc(func(_ runner.Experiment, res results.ExperimentResult, outcome model.Outcome) {
				status := okStatus("ok")
				if outcome.Failed() {
					status = failStatus("failed")
				}
				_, _ = fmt.Fprintf(out, "%s (%d ms)\n", status, res.LatencyMs)
			})

			_, _ = fmt.Fprintf(out, "Results file: %s\n", d.cfg.ResultsFile)
			_, _ = fmt.Fprintf(out, "Experiments planned: %d\n\n", len(plan))

			summary, err := r.Run(ctx, plan)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(out)
			if summary.Cancelled {
				_, _ = fmt.Fprintln(out, warnStatus("Batch interrupted; recorded results were kept."))
			}
			_, _ = fmt.Fprintf(out, "Run ID: %s\n", summary.RunID)
			_, _ = fmt.Fprintf(out, "Completed: %d (failed: %d, skipped: %d)\n", summary.Completed, summary.Failed, summary.Skipped)
			_, _ = fmt.Fprintf(out, "Duration: %s\n", summary.Duration.Round(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&check, "check", false, "Send one verification prompt to each model and exit")
	flags.BoolVar(&resume, "resume", false, "Skip experiments already recorded in the results file")
	flags.StringSliceVar(&domains, "domains", nil, "Only run problems of these domains")
	flags.StringSliceVar(&problems, "problems", nil, "Only run these problem IDs")
	flags.StringSlice("models", nil, "Models to run (default: claude,gemini)")
	flags.IntSlice("shots", nil, "Shot counts to run (default: 0,1,3,5)")
	flags.Duration("timeout", model.DefaultTimeout, "Per-call timeout")
	flags.Duration("delay", config.DefaultDelay, "Pause between consecutive calls")

	_ = v.BindPFlag("models", flags.Lookup("models"))
	_ = v.BindPFlag("shots", flags.Lookup("shots"))
	_ = v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("delay", flags.Lookup("delay"))

	return cmd
}

func runCheck(ctx context.Context, out io.Writer, d *deps) error {
	var invokers []model.Invoker
	unavailable := make(map[string]error)
	for _, name := range d.cfg.Models {
		inv, err := d.registry.Lookup(name)
		if err != nil {
			return err
		}
		if err := inv.Available(); err != nil {
			unavailable[name] = err
			continue
		}
		invokers = append(invokers, inv)
	}
	printUnavailable(out, unavailable)
	if len(invokers) == 0 {
		return errors.New("none of the selected models is available")
	}

	failed := 0
	for _, c := range runner.Check(ctx, invokers) {
		if c.Outcome.Failed() {
			failed++
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", failStatus("FAIL"), c.Model, c.Outcome.Err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s (%d ms): %s\n", okStatus("OK"), c.Model, c.Outcome.Latency.Milliseconds(), c.Outcome.Text)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d verification calls failed", failed, len(invokers))
	}
	return nil
}

func printUnavailable(out io.Writer, unavailable map[string]error) {
	names := make([]string, 0, len(unavailable))
	for name := range unavailable {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "%s %s: %v\n", warnStatus("SKIP"), name, unavailable[name])
	}
}
