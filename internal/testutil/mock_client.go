// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"time"

	"github.com/giantswarm/fewshot-bench/internal/llm"
	"github.com/giantswarm/fewshot-bench/internal/model"
)

// MockLLMClient is a configurable mock for llm.Client used across test packages.
type MockLLMClient struct {
	// Responses maps user messages to canned responses.
	Responses map[string]string

	// DefaultResponse is returned when no matching key is found in Responses.
	DefaultResponse string

	// Err is returned from every call when set.
	Err error

	// Calls tracks the number of ChatCompletion invocations.
	Calls int

	// LastRequest stores the most recent ChatRequest for inspection.
	LastRequest llm.ChatRequest
}

func (m *MockLLMClient) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.Calls++
	m.LastRequest = req

	if m.Err != nil {
		return nil, m.Err
	}

	if resp, ok := m.Responses[req.UserMessage]; ok {
		return &llm.ChatResponse{Content: resp}, nil
	}

	if m.DefaultResponse != "" {
		return &llm.ChatResponse{Content: m.DefaultResponse}, nil
	}

	return &llm.ChatResponse{Content: "mock response"}, nil
}

// MockInvoker is a scripted model.Invoker.
type MockInvoker struct {
	ModelName string

	// Respond computes the outcome for a prompt. When nil, Invoke returns
	// DefaultResponse.
	Respond func(prompt string) model.Outcome

	DefaultResponse string
	Latency         time.Duration

	// Unavailable is returned from Available when set.
	Unavailable error

	Prompts []string
}

func (m *MockInvoker) Name() string {
	return m.ModelName
}

func (m *MockInvoker) Available() error {
	return m.Unavailable
}

func (m *MockInvoker) Invoke(_ context.Context, prompt string) model.Outcome {
	m.Prompts = append(m.Prompts, prompt)
	if m.Respond != nil {
		return m.Respond(prompt)
	}
	return model.Outcome{Text: m.DefaultResponse, Latency: m.Latency}
}

// Calls returns the number of Invoke calls.
func (m *MockInvoker) Calls() int {
	return len(m.Prompts)
}
