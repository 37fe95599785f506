package model_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/model"
)

func TestAnthropicInvoker(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "The answer is \\boxed{3}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer srv.Close()

	inv := model.NewAnthropicInvoker("anthropic", model.AnthropicConfig{
		APIKey:  "sk-ant-test",
		Model:   "claude-test",
		BaseURL: srv.URL,
	})
	require.NoError(t, inv.Available())

	out := inv.Invoke(context.Background(), "Solve for x: 2x + 5 = 11.")
	require.NoError(t, out.Err)
	assert.Equal(t, `The answer is \boxed{3}`, out.Text)
	assert.Equal(t, 7, out.Tokens)
	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 4096, body["max_tokens"])
}

func TestAnthropicInvokerServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "overloaded"}}`))
	}))
	defer srv.Close()

	inv := model.NewAnthropicInvoker("anthropic", model.AnthropicConfig{
		APIKey:  "k",
		Model:   "m",
		BaseURL: srv.URL,
	})

	out := inv.Invoke(context.Background(), "prompt")
	require.Error(t, out.Err)
	assert.True(t, strings.HasPrefix(out.Response(), model.ErrorPrefix))
	// No retries.
	assert.Equal(t, 1, calls)
}

func TestAnthropicInvokerUnavailable(t *testing.T) {
	inv := model.NewAnthropicInvoker("anthropic", model.AnthropicConfig{Model: "m"})
	assert.ErrorContains(t, inv.Available(), "API key")

	out := inv.Invoke(context.Background(), "prompt")
	assert.True(t, out.Failed())
}
