package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/fewshot-bench/internal/server"
)

// RegisterTools registers all MCP tools with the server.
func RegisterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil || sc.Config == nil || sc.Bank == nil || sc.Registry == nil {
		return fmt.Errorf("server context is incomplete")
	}

	// list_problems
	listTool := mcp.NewTool("list_problems",
		mcp.WithDescription("List benchmark problems with their domain, difficulty and the number of worked examples available for their domain"),
		mcp.WithString("domain",
			mcp.Description("Only list problems of this domain (mathematics, physics, chemistry, biology)"),
		),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListProblems(ctx, request, sc)
	})

	// preview_prompt
	previewTool := mcp.NewTool("preview_prompt",
		mcp.WithDescription("Render the exact prompt sent to a model for a problem and shot count"),
		mcp.WithString("problem_id",
			mcp.Required(),
			mcp.Description("Problem identifier (e.g. 'math-3')"),
		),
		mcp.WithNumber("shots",
			mcp.Description("Number of worked examples to include (default: 0)"),
		),
	)
	s.AddTool(previewTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePreviewPrompt(ctx, request, sc)
	})

	// run_experiments
	runTool := mcp.NewTool("run_experiments",
		mcp.WithDescription("Run the benchmark sequentially and append the results to the results file. Defaults to every problem, the configured models and the configured shot counts."),
		mcp.WithString("problems",
			mcp.Description("Comma-separated problem IDs (default: all)"),
		),
		mcp.WithString("domains",
			mcp.Description("Comma-separated domains (default: all)"),
		),
		mcp.WithString("models",
			mcp.Description("Comma-separated model selectors (default: from config)"),
		),
		mcp.WithString("shots",
			mcp.Description("Comma-separated shot counts (default: from config, e.g. '0,1,3,5')"),
		),
		mcp.WithBoolean("resume",
			mcp.Description("Skip experiments already present in the results file"),
		),
	)
	s.AddTool(runTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunExperiments(ctx, request, sc)
	})

	// analyze_results
	analyzeTool := mcp.NewTool("analyze_results",
		mcp.WithDescription("Score recorded results for correctness and format adherence and aggregate them by condition, domain, problem and model"),
		mcp.WithString("results_file",
			mcp.Description("Results file to analyze, within the results directory (default: from config)"),
		),
		mcp.WithBoolean("include_records",
			mcp.Description("Include the per-result records in the response (default: false)"),
		),
		mcp.WithBoolean("write",
			mcp.Description("Write the analysis file (default: true)"),
		),
	)
	s.AddTool(analyzeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAnalyzeResults(ctx, request, sc)
	})

	return nil
}

// stringList splits a comma-separated argument, dropping empty items.
func stringList(args map[string]any, key string) []string {
	raw, _ := args[key].(string)
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// intList parses a comma-separated list of integers.
func intList(args map[string]any, key string) ([]int, error) {
	var out []int
	for _, item := range stringList(args, key) {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", key, item)
		}
		out = append(out, n)
	}
	return out, nil
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}
