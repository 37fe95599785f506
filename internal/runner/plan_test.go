package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/model"
	"github.com/giantswarm/fewshot-bench/internal/testutil"
)

func testRegistry() *model.Registry {
	return model.NewRegistry(
		&testutil.MockInvoker{ModelName: "claude"},
		&testutil.MockInvoker{ModelName: "gemini", Unavailable: errors.New("gemini not found")},
	)
}

func TestBuildPlanFullBank(t *testing.T) {
	bank := loadBank(t)

	plan, unavailable, err := BuildPlan(bank, testRegistry(), Selection{
		Models: []string{"claude", "gemini"},
		Shots:  []int{0, 1, 3, 5},
	})
	require.NoError(t, err)

	assert.Len(t, plan, len(bank.Problems)*4)
	assert.Contains(t, unavailable, "gemini")
	for _, exp := range plan {
		assert.Equal(t, "claude", exp.Model.Name())
	}
}

func TestBuildPlanFilters(t *testing.T) {
	bank := loadBank(t)

	plan, _, err := BuildPlan(bank, testRegistry(), Selection{
		Domains: []string{"chemistry"},
		Models:  []string{"claude"},
		Shots:   []int{0},
	})
	require.NoError(t, err)
	require.Len(t, plan, 3)
	for _, exp := range plan {
		assert.Equal(t, benchmark.Chemistry, exp.Problem.Domain)
	}

	plan, _, err = BuildPlan(bank, testRegistry(), Selection{
		Problems: []string{"biology-2"},
		Models:   []string{"claude"},
		Shots:    []int{3},
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "3-shot", plan[0].Condition())
}

func TestBuildPlanErrors(t *testing.T) {
	bank := loadBank(t)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"no shots", Selection{Models: []string{"claude"}}},
		{"negative shots", Selection{Models: []string{"claude"}, Shots: []int{-1}}},
		{"no models", Selection{Shots: []int{0}}},
		{"unknown model", Selection{Models: []string{"gpt-ultra"}, Shots: []int{0}}},
		{"only unavailable models", Selection{Models: []string{"gemini"}, Shots: []int{0}}},
		{"unknown problem", Selection{Problems: []string{"math-99"}, Models: []string{"claude"}, Shots: []int{0}}},
		{"unknown domain", Selection{Domains: []string{"astrology"}, Models: []string{"claude"}, Shots: []int{0}}},
		{"empty intersection", Selection{Problems: []string{"math-1"}, Domains: []string{"biology"}, Models: []string{"claude"}, Shots: []int{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildPlan(bank, testRegistry(), tt.sel)
			assert.Error(t, err)
		})
	}

	_, _, err := BuildPlan(bank, testRegistry(), Selection{Models: []string{"gpt-ultra"}, Shots: []int{0}})
	var unsupported *model.UnsupportedModelError
	assert.ErrorAs(t, err, &unsupported)
}
