// Package config loads fewshot-bench settings from an optional YAML file,
// FEWSHOT_BENCH_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/giantswarm/fewshot-bench/internal/llm"
	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/prompt"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "FEWSHOT_BENCH"

// DefaultConfigName is the config file searched for in the working directory
// when no --config flag is given.
const DefaultConfigName = "fewshot-bench"

// Selectors for the API-backed invokers.
const (
	OpenAIModel    = "openai"
	AnthropicModel = "anthropic"
)

// Default locations of the results and analysis files.
const (
	DefaultResultsFile  = "results/experiment_results.json"
	DefaultAnalysisFile = "results/analysis.json"
)

// DefaultDelay is the courtesy pause between consecutive invocations.
const DefaultDelay = 2 * time.Second

const defaultAnthropicModel = "claude-sonnet-4-5"

// DefaultModels are run when no --models flag or models key is given.
var DefaultModels = []string{"claude", "gemini"}

// defaultTools are the built-in CLI tool invocations.
var defaultTools = map[string]ToolConfig{
	"claude": {Command: "claude", Args: []string{"-p"}},
	"gemini": {Command: "gemini"},
}

// ToolConfig describes an external model CLI.
type ToolConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// OpenAIConfig configures the OpenAI-compatible invoker.
type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// AnthropicConfig configures the Anthropic Messages API invoker.
type AnthropicConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

// Config is the fully merged configuration (flags > env > file > defaults).
type Config struct {
	ResultsFile    string                `mapstructure:"results_file"`
	AnalysisFile   string                `mapstructure:"analysis_file"`
	DataDir        string                `mapstructure:"data_dir"`
	Timeout        time.Duration         `mapstructure:"timeout"`
	Delay          time.Duration         `mapstructure:"delay"`
	MaxOutputBytes int                   `mapstructure:"max_output_bytes"`
	Shots          []int                 `mapstructure:"shots"`
	Models         []string              `mapstructure:"models"`
	Tools          map[string]ToolConfig `mapstructure:"tools"`
	OpenAI         OpenAIConfig          `mapstructure:"openai"`
	Anthropic      AnthropicConfig       `mapstructure:"anthropic"`
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers the default value of every key. Keys need a default
// to be picked up from the environment by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("results_file", DefaultResultsFile)
	v.SetDefault("analysis_file", DefaultAnalysisFile)
	v.SetDefault("data_dir", "")
	v.SetDefault("timeout", model.DefaultTimeout)
	v.SetDefault("delay", DefaultDelay)
	v.SetDefault("max_output_bytes", model.DefaultMaxOutputBytes)
	v.SetDefault("shots", prompt.DefaultShots)
	v.SetDefault("models", DefaultModels)

	v.SetDefault("openai.base_url", llm.DefaultBaseURL)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "")

	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", defaultAnthropicModel)
	v.SetDefault("anthropic.max_tokens", 4096)
}

// Load reads the config file and unmarshals the merged settings. An explicit
// file must exist; the default ./fewshot-bench.yaml is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ResultsFile == "" {
		return errors.New("results_file must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	for _, n := range c.Shots {
		if n < 0 {
			return fmt.Errorf("shot counts must not be negative, got %d", n)
		}
	}
	if len(c.Models) == 0 {
		return errors.New("at least one model is required")
	}
	return nil
}

// Registry builds the invoker registry: the built-in tools, any configured
// tools (which replace built-ins of the same name), then the OpenAI and
// Anthropic invokers.
func (c *Config) Registry() *model.Registry {
	reg := model.NewRegistry()

	tools := make(map[string]ToolConfig, len(defaultTools)+len(c.Tools))
	for name, tool := range defaultTools {
		tools[name] = tool
	}
	for name, tool := range c.Tools {
		if tool.Command == "" {
			continue
		}
		tools[name] = tool
	}

	for _, name := range toolOrder(tools) {
		tool := tools[name]
		reg.Register(model.NewCommandInvoker(name, tool.Command, tool.Args,
			model.WithTimeout(c.Timeout),
			model.WithMaxOutputBytes(c.MaxOutputBytes),
		))
	}

	reg.Register(model.NewChatInvoker(OpenAIModel, c.openAIClient(), c.OpenAI.Model, c.Timeout))

	apiKey := c.Anthropic.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	reg.Register(model.NewAnthropicInvoker(AnthropicModel, model.AnthropicConfig{
		APIKey:    apiKey,
		Model:     c.Anthropic.Model,
		BaseURL:   c.Anthropic.BaseURL,
		MaxTokens: c.Anthropic.MaxTokens,
		Timeout:   c.Timeout,
	}))

	return reg
}

// openAIClient falls back to the OPENAI_API_KEY environment variable when no
// key is configured.
func (c *Config) openAIClient() llm.Client {
	apiKey := c.OpenAI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return llm.NewOpenAIClient(
		llm.WithBaseURL(c.OpenAI.BaseURL),
		llm.WithAPIKey(apiKey),
	)
}

// toolOrder lists the built-in tools first, then the rest alphabetically.
func toolOrder(tools map[string]ToolConfig) []string {
	var names []string
	for _, name := range DefaultModels {
		if _, ok := tools[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range tools {
		if _, builtin := defaultTools[name]; !builtin {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
