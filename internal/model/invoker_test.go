package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/testutil"
)

func TestOutcomeResponse(t *testing.T) {
	ok := model.Outcome{Text: "x = 3"}
	assert.Equal(t, "x = 3", ok.Response())
	assert.False(t, ok.Failed())

	failed := model.Outcome{Text: "partial", Err: errors.New("claude timed out after 2m0s")}
	assert.Equal(t, "ERROR: claude timed out after 2m0s", failed.Response())
	assert.True(t, failed.Failed())
}

func TestRegistryLookup(t *testing.T) {
	claude := &testutil.MockInvoker{ModelName: "claude"}
	gemini := &testutil.MockInvoker{ModelName: "gemini"}
	reg := model.NewRegistry(claude, gemini)

	inv, err := reg.Lookup("gemini")
	require.NoError(t, err)
	assert.Same(t, gemini, inv)

	_, err = reg.Lookup("gpt-ultra")
	var unsupported *model.UnsupportedModelError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "gpt-ultra", unsupported.Name)
	assert.Equal(t, []string{"claude", "gemini"}, unsupported.Known)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	first := &testutil.MockInvoker{ModelName: "claude", DefaultResponse: "first"}
	second := &testutil.MockInvoker{ModelName: "claude", DefaultResponse: "second"}
	reg := model.NewRegistry(first)
	reg.Register(second)

	assert.Equal(t, []string{"claude"}, reg.Names())
	inv, err := reg.Lookup("claude")
	require.NoError(t, err)
	assert.Same(t, second, inv)
}

func TestRegistryAvailable(t *testing.T) {
	reg := model.NewRegistry(
		&testutil.MockInvoker{ModelName: "claude"},
		&testutil.MockInvoker{ModelName: "gemini", Unavailable: errors.New("gemini not found")},
		&testutil.MockInvoker{ModelName: "openai"},
	)

	ok, unavailable := reg.Available()
	require.Len(t, ok, 2)
	assert.Equal(t, "claude", ok[0].Name())
	assert.Equal(t, "openai", ok[1].Name())
	assert.EqualError(t, unavailable["gemini"], "gemini not found")
}
