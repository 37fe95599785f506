package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
	"github.com/giantswarm/fewshot-bench/internal/results"
	"github.com/giantswarm/fewshot-bench/internal/server"
)

func handleAnalyzeResults(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path := sc.Config.ResultsFile
	if requested, _ := args["results_file"].(string); requested != "" {
		resolved, err := resolveResultsFile(sc.Config.ResultsFile, requested)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid results_file: %v", err)), nil
		}
		path = resolved
	}

	collection, err := results.Load(path)
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no results found at %s; run experiments first", path)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load results: %v", err)), nil
	}

	a := analysis.Analyze(collection, sc.Bank, analysis.Conditions(sc.Config.Shots))

	if boolArg(args, "write", true) && sc.Config.AnalysisFile != "" {
		if err := analysis.WriteFile(sc.Config.AnalysisFile, a); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write analysis: %v", err)), nil
		}
	}

	if !boolArg(args, "include_records", false) {
		trimmed := *a
		trimmed.Records = nil
		a = &trimmed
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
