package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/prompt"
	"github.com/giantswarm/fewshot-bench/internal/server"
)

func handleListProblems(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var domains []benchmark.Domain
	if name, _ := args["domain"].(string); name != "" {
		d, err := benchmark.ParseDomain(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		domains = append(domains, d)
	}

	problems, err := sc.Bank.Select(nil, domains)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list problems: %v", err)), nil
	}

	type problemInfo struct {
		ID           string           `json:"id"`
		Domain       benchmark.Domain `json:"domain"`
		Difficulty   string           `json:"difficulty"`
		AnswerFormat string           `json:"answer_format,omitempty"`
		Prompt       string           `json:"prompt"`
		Examples     int              `json:"examples"`
	}

	infos := make([]problemInfo, 0, len(problems))
	for _, p := range problems {
		infos = append(infos, problemInfo{
			ID:           p.ID,
			Domain:       p.Domain,
			Difficulty:   p.Difficulty,
			AnswerFormat: p.AnswerFormat,
			Prompt:       p.Prompt,
			Examples:     len(sc.Bank.ExamplesFor(p.Domain)),
		})
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal problems: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handlePreviewPrompt(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id, _ := args["problem_id"].(string)
	if id == "" {
		return mcp.NewToolResultError("problem_id is required"), nil
	}

	p, ok := sc.Bank.Problem(id)
	if !ok {
		return mcp.NewToolResultError((&benchmark.UnknownProblemError{ID: id}).Error()), nil
	}

	shots := 0
	if n, ok := args["shots"].(float64); ok {
		shots = int(n)
	}
	if shots < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("shots must not be negative, got %d", shots)), nil
	}

	return mcp.NewToolResultText(prompt.ForBank(sc.Bank, p, shots)), nil
}
