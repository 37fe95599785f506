package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultResultsFile, cfg.ResultsFile)
	assert.Equal(t, DefaultAnalysisFile, cfg.AnalysisFile)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, model.DefaultMaxOutputBytes, cfg.MaxOutputBytes)
	assert.Equal(t, []int{0, 1, 3, 5}, cfg.Shots)
	assert.Equal(t, []string{"claude", "gemini"}, cfg.Models)
	assert.Equal(t, int64(4096), cfg.Anthropic.MaxTokens)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
results_file: out/results.json
timeout: 30s
delay: 0s
shots: [0, 2]
models: [local]
tools:
  local:
    command: ollama
    args: [run, llama3]
openai:
  model: qwen
`)

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "out/results.json", cfg.ResultsFile)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Delay)
	assert.Equal(t, []int{0, 2}, cfg.Shots)
	assert.Equal(t, []string{"local"}, cfg.Models)
	assert.Equal(t, ToolConfig{Command: "ollama", Args: []string{"run", "llama3"}}, cfg.Tools["local"])
	assert.Equal(t, "qwen", cfg.OpenAI.Model)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "timeout: 30s\n")
	t.Setenv("FEWSHOT_BENCH_TIMEOUT", "45s")
	t.Setenv("FEWSHOT_BENCH_OPENAI_MODEL", "from-env")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "from-env", cfg.OpenAI.Model)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ResultsFile: "r.json",
			Timeout:     time.Second,
			Shots:       []int{0, 1},
			Models:      []string{"claude"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty results file", func(c *Config) { c.ResultsFile = "" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }},
		{"negative shots", func(c *Config) { c.Shots = []int{-1} }},
		{"no models", func(c *Config) { c.Models = nil }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := Config{
		Timeout: time.Second,
		Tools: map[string]ToolConfig{
			"zeta":   {Command: "zeta-cli"},
			"alpha":  {Command: "alpha-cli"},
			"gemini": {Command: "gemini-wrapper", Args: []string{"--quiet"}},
			"empty":  {},
		},
		Anthropic: AnthropicConfig{Model: "m"},
	}

	reg := cfg.Registry()
	assert.Equal(t, []string{"claude", "gemini", "alpha", "zeta", OpenAIModel, AnthropicModel}, reg.Names())

	inv, err := reg.Lookup("anthropic")
	require.NoError(t, err)
	assert.Error(t, inv.Available(), "no API key configured")

	inv, err = reg.Lookup(OpenAIModel)
	require.NoError(t, err)
	assert.Error(t, inv.Available(), "no model configured")

	_, err = reg.Lookup("empty")
	assert.Error(t, err)
}
