package server

import (
	"sync"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/config"
	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/runner"
)

// ServerContext holds shared dependencies for MCP tool handlers.
type ServerContext struct {
	Config   *config.Config
	Bank     *benchmark.Bank
	Registry *model.Registry

	// Sleep overrides the courtesy delay between invocations (optional).
	Sleep runner.SleepFunc

	// ResultsMu serializes batches that rewrite Config.ResultsFile. Hold it
	// from loading the existing results until the batch returns.
	ResultsMu sync.Mutex
}
