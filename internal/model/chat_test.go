package model_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/testutil"
)

func TestChatInvokerSendsPrompt(t *testing.T) {
	client := &testutil.MockLLMClient{
		Responses: map[string]string{"Solve 2x + 5 = 11": "x = 3"},
	}
	inv := model.NewChatInvoker("openai", client, "bench-model", time.Minute)

	out := inv.Invoke(context.Background(), "Solve 2x + 5 = 11")
	require.NoError(t, out.Err)
	assert.Equal(t, "x = 3", out.Text)
	assert.Equal(t, "bench-model", client.LastRequest.Model)
	require.NotNil(t, client.LastRequest.Temperature)
	assert.Equal(t, 0.0, *client.LastRequest.Temperature)
	assert.Empty(t, client.LastRequest.SystemMessage)
}

func TestChatInvokerSoftFails(t *testing.T) {
	client := &testutil.MockLLMClient{Err: errors.New("connection refused")}
	inv := model.NewChatInvoker("openai", client, "bench-model", 0)

	out := inv.Invoke(context.Background(), "prompt")
	require.Error(t, out.Err)
	assert.True(t, strings.HasPrefix(out.Response(), model.ErrorPrefix))
	assert.Contains(t, out.Response(), "connection refused")
}

func TestChatInvokerRequiresModel(t *testing.T) {
	client := &testutil.MockLLMClient{}
	inv := model.NewChatInvoker("openai", client, "", 0)

	assert.Error(t, inv.Available())
	out := inv.Invoke(context.Background(), "prompt")
	assert.True(t, out.Failed())
	assert.Equal(t, 0, client.Calls)
}
