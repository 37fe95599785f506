package runner

import (
	"context"
	"log/slog"

	"github.com/giantswarm/fewshot-bench/internal/model"
)

// CheckPrompt is the verification prompt sent by Check.
const CheckPrompt = "What is 2 + 2? Reply with the number only."

// CheckResult is the outcome of one verification call.
type CheckResult struct {
	Model   string
	Outcome model.Outcome
}

// Check sends CheckPrompt once to each invoker, in order. Nothing is
// recorded to the results file.
func Check(ctx context.Context, invokers []model.Invoker) []CheckResult {
	checks := make([]CheckResult, 0, len(invokers))
	for _, inv := range invokers {
		if ctx.Err() != nil {
			break
		}
		outcome := inv.Invoke(ctx, CheckPrompt)
		slog.Debug("verification call complete",
			"model", inv.Name(),
			"latency_ms", outcome.Latency.Milliseconds(),
			"error", outcome.Err,
		)
		checks = append(checks, CheckResult{Model: inv.Name(), Outcome: outcome})
	}
	return checks
}
