// Package runner executes the benchmark: one model invocation per
// (problem, shot count, model) triple, recorded and persisted one at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/prompt"
	"github.com/giantswarm/fewshot-bench/internal/results"
)

// ProgressFunc is called before each experiment is executed.
type ProgressFunc func(exp Experiment, index, total int)

// ResultFunc is called after each experiment has been recorded.
type ResultFunc func(exp Experiment, res results.ExperimentResult, outcome model.Outcome)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Experiment is one planned invocation.
type Experiment struct {
	Problem benchmark.Problem
	Model   model.Invoker
	Shots   int
}

// Condition returns the condition label, e.g. "3-shot".
func (e Experiment) Condition() string {
	return prompt.ConditionLabel(e.Shots)
}

// Summary describes a finished (or interrupted) batch.
type Summary struct {
	RunID     string
	Planned   int
	Completed int
	Failed    int
	Skipped   int
	Cancelled bool
	Duration  time.Duration
	Results   []results.ExperimentResult
}

// Runner orchestrates a batch of experiments.
type Runner struct {
	bank     *benchmark.Bank
	recorder *results.Recorder
	delay    time.Duration
	resume   bool
	sleep    SleepFunc
	now      func() time.Time
	progress ProgressFunc
	onResult ResultFunc
}

// NewRunner creates a runner that records into recorder and pauses delay
// between consecutive invocations.
func NewRunner(bank *benchmark.Bank, recorder *results.Recorder, delay time.Duration) *Runner {
	return &Runner{
		bank:     bank,
		recorder: recorder,
		delay:    delay,
		sleep:    Sleep,
		now:      time.Now,
	}
}

// SetProgressFunc sets the progress callback.
func (r *Runner) SetProgressFunc(fn ProgressFunc) {
	r.progress = fn
}

// SetResultFunc sets the callback invoked after each recorded experiment.
func (r *Runner) SetResultFunc(fn ResultFunc) {
	r.onResult = fn
}

// SetSleepFunc replaces the courtesy delay implementation.
func (r *Runner) SetSleepFunc(fn SleepFunc) {
	r.sleep = fn
}

// SetResume makes Run skip experiments already present in the recorder.
func (r *Runner) SetResume(resume bool) {
	r.resume = resume
}

// Run executes the plan sequentially. Invocation failures are recorded as
// error responses; only a persistence failure aborts the batch. Cancelling
// ctx stops the batch between experiments and is not reported as an error.
func (r *Runner) Run(ctx context.Context, plan []Experiment) (*Summary, error) {
	if len(plan) == 0 {
		return nil, errors.New("no experiments planned")
	}

	start := r.now()
	summary := &Summary{
		RunID:   uuid.NewString(),
		Planned: len(plan),
	}

	slog.Info("starting experiment batch",
		"run_id", summary.RunID,
		"experiments", len(plan),
		"results_file", r.recorder.Path(),
	)

	invoked := false
	for i, exp := range plan {
		if err := ctx.Err(); err != nil {
			slog.Warn("experiment batch cancelled", "completed", summary.Completed, "total", len(plan))
			summary.Cancelled = true
			break
		}

		if r.resume && r.recorder.Has(r.key(exp)) {
			slog.Debug("skipping recorded experiment",
				"problem_id", exp.Problem.ID,
				"model", exp.Model.Name(),
				"condition", exp.Condition(),
			)
			summary.Skipped++
			continue
		}

		if invoked && r.delay > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				slog.Warn("experiment batch cancelled", "completed", summary.Completed, "total", len(plan))
				summary.Cancelled = true
				break
			}
		}

		if r.progress != nil {
			r.progress(exp, i+1, len(plan))
		}

		res, outcome := r.execute(ctx, exp, summary.RunID)
		invoked = true

		if err := r.recorder.Append(res); err != nil {
			return summary, fmt.Errorf("failed to persist result for %s/%s/%s: %w",
				exp.Problem.ID, exp.Model.Name(), exp.Condition(), err)
		}

		summary.Completed++
		if outcome.Failed() {
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)

		if r.onResult != nil {
			r.onResult(exp, res, outcome)
		}
	}

	summary.Duration = r.now().Sub(start)
	slog.Info("experiment batch complete",
		"run_id", summary.RunID,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (r *Runner) execute(ctx context.Context, exp Experiment, runID string) (results.ExperimentResult, model.Outcome) {
	text := prompt.ForBank(r.bank, exp.Problem, exp.Shots)
	outcome := exp.Model.Invoke(ctx, text)

	response := outcome.Response()
	tokens := outcome.Tokens
	if tokens <= 0 {
		tokens = results.EstimateTokens(response)
	}

	res := results.ExperimentResult{
		ProblemID: exp.Problem.ID,
		Model:     exp.Model.Name(),
		Condition: exp.Condition(),
		Shots:     exp.Shots,
		Prompt:    text,
		Response:  response,
		Tokens:    tokens,
		LatencyMs: outcome.Latency.Milliseconds(),
		Timestamp: r.now().UTC(),
		RunID:     runID,
	}

	if outcome.Failed() {
		slog.Error("model invocation failed",
			"problem_id", res.ProblemID,
			"model", res.Model,
			"condition", res.Condition,
			"latency_ms", res.LatencyMs,
			"error", outcome.Err,
		)
	} else {
		slog.Debug("model invocation complete",
			"problem_id", res.ProblemID,
			"model", res.Model,
			"condition", res.Condition,
			"latency_ms", res.LatencyMs,
			"tokens", res.Tokens,
			"truncated", outcome.Truncated,
		)
	}
	return res, outcome
}

func (r *Runner) key(exp Experiment) results.ExperimentResult {
	return results.ExperimentResult{
		ProblemID: exp.Problem.ID,
		Model:     exp.Model.Name(),
		Condition: exp.Condition(),
	}
}

// Sleep waits for d, returning ctx.Err() if ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
