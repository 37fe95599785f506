package cmd

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/config"
	"github.com/giantswarm/fewshot-bench/internal/model"
)

var (
	okStatus   = color.New(color.FgGreen).SprintFunc()
	failStatus = color.New(color.FgRed).SprintFunc()
	warnStatus = color.New(color.FgYellow).SprintFunc()
)

// deps are the collaborators every command builds from configuration.
type deps struct {
	cfg      *config.Config
	bank     *benchmark.Bank
	registry *model.Registry
}

// loadConfig merges the config file, environment and flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config file", "path", used)
	}
	return cfg, nil
}

// loadDeps loads configuration, the problem bank and the model registry.
func loadDeps() (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	bank, err := benchmark.Load(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem bank: %w", err)
	}
	return &deps{cfg: cfg, bank: bank, registry: cfg.Registry()}, nil
}
