package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 4096

// AnthropicConfig configures an AnthropicInvoker.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
	Timeout   time.Duration
}

// AnthropicInvoker sends prompts to the Anthropic Messages API.
type AnthropicInvoker struct {
	name   string
	cfg    AnthropicConfig
	client anthropic.Client
}

// NewAnthropicInvoker creates an invoker for the Messages API. The SDK's
// automatic retries are disabled; a failed call is recorded as failed.
func NewAnthropicInvoker(name string, cfg AnthropicConfig) *AnthropicInvoker {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultAnthropicMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicInvoker{
		name:   name,
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}
}

func (a *AnthropicInvoker) Name() string {
	return a.name
}

// Available requires an API key and a model name.
func (a *AnthropicInvoker) Available() error {
	if a.cfg.APIKey == "" {
		return errors.New("no API key configured")
	}
	if a.cfg.Model == "" {
		return errors.New("no model configured")
	}
	return nil
}

func (a *AnthropicInvoker) Invoke(ctx context.Context, prompt string) Outcome {
	start := time.Now()
	if err := a.Available(); err != nil {
		return Outcome{Latency: time.Since(start), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: a.cfg.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	latency := time.Since(start)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{Latency: latency, Err: fmt.Errorf("%s timed out after %s", a.name, a.cfg.Timeout)}
		}
		return Outcome{Latency: latency, Err: fmt.Errorf("anthropic API error: %w", err)}
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return Outcome{Text: block.Text, Latency: latency, Tokens: int(message.Usage.OutputTokens)}
		}
	}
	return Outcome{Latency: latency, Err: errors.New("no text content in Anthropic response")}
}
