package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giantswarm/fewshot-bench/internal/llm"
)

// ChatInvoker sends prompts to an OpenAI-compatible chat completion API.
type ChatInvoker struct {
	name    string
	client  llm.Client
	model   string
	timeout time.Duration
}

// NewChatInvoker creates an invoker backed by an llm.Client.
func NewChatInvoker(name string, client llm.Client, model string, timeout time.Duration) *ChatInvoker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChatInvoker{name: name, client: client, model: model, timeout: timeout}
}

func (c *ChatInvoker) Name() string {
	return c.name
}

// Available requires a client and a model name.
func (c *ChatInvoker) Available() error {
	if c.client == nil {
		return errors.New("no client configured")
	}
	if c.model == "" {
		return errors.New("no model configured")
	}
	return nil
}

func (c *ChatInvoker) Invoke(ctx context.Context, prompt string) Outcome {
	start := time.Now()
	if err := c.Available(); err != nil {
		return Outcome{Latency: time.Since(start), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:       c.model,
		UserMessage: prompt,
		Temperature: llm.Temperature(0),
	})
	latency := time.Since(start)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s timed out after %s", c.name, c.timeout)
		}
		return Outcome{Latency: latency, Err: err}
	}
	return Outcome{Text: resp.Content, Latency: latency, Tokens: resp.OutputTokens}
}
