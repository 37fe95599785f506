package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/fewshot-bench/internal/results"
	"github.com/giantswarm/fewshot-bench/internal/runner"
	"github.com/giantswarm/fewshot-bench/internal/server"
)

func handleRunExperiments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	shots, err := intList(args, "shots")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(shots) == 0 {
		shots = sc.Config.Shots
	}
	models := stringList(args, "models")
	if len(models) == 0 {
		models = sc.Config.Models
	}

	plan, unavailable, err := runner.BuildPlan(sc.Bank, sc.Registry, runner.Selection{
		Problems: stringList(args, "problems"),
		Domains:  stringList(args, "domains"),
		Models:   models,
		Shots:    shots,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	// Each batch rewrites the whole results file, so batches run one at a time.
	sc.ResultsMu.Lock()
	defer sc.ResultsMu.Unlock()

	existing, err := results.Load(sc.Config.ResultsFile)
	if err != nil && !errors.Is(err, results.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load results: %v", err)), nil
	}

	r := runner.NewRunner(sc.Bank, results.NewRecorder(sc.Config.ResultsFile, existing), sc.Config.Delay)
	r.SetResume(boolArg(args, "resume", false))
	if sc.Sleep != nil {
		r.SetSleepFunc(sc.Sleep)
	}
	r.SetProgressFunc(func(exp runner.Experiment, idx, total int) {
		slog.Info("running experiment",
			"problem_id", exp.Problem.ID,
			"model", exp.Model.Name(),
			"condition", exp.Condition(),
			"index", idx,
			"total", total,
		)
	})

	summary, err := r.Run(ctx, plan)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("experiment run failed: %v", err)), nil
	}

	skipped := make(map[string]string, len(unavailable))
	for name, reason := range unavailable {
		skipped[name] = reason.Error()
	}

	out := map[string]interface{}{
		"run_id":             summary.RunID,
		"planned":            summary.Planned,
		"completed":          summary.Completed,
		"failed":             summary.Failed,
		"skipped":            summary.Skipped,
		"cancelled":          summary.Cancelled,
		"duration":           summary.Duration.String(),
		"results_file":       sc.Config.ResultsFile,
		"unavailable_models": skipped,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
