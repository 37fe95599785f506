package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/results"
)

func sampleAnalysis(t *testing.T) *analysis.Analysis {
	t.Helper()
	bank, err := benchmark.Load("")
	require.NoError(t, err)

	collection := []results.ExperimentResult{
		{ProblemID: "math-3", Model: "claude", Condition: "0-shot", Response: "x = 3", Tokens: 3, LatencyMs: 1200},
		{ProblemID: "math-3", Model: "claude", Condition: "1-shot", Response: "no idea", Tokens: 2, LatencyMs: 800},
	}
	return analysis.Analyze(collection, bank, analysis.Conditions([]int{0, 1, 3}))
}

func TestPercentAndDecimal(t *testing.T) {
	half := 0.5
	assert.Equal(t, "50.0%", Percent(&half))
	assert.Equal(t, NotApplicable, Percent(nil))
	assert.Equal(t, "0.50", Decimal(&half, 2))
	assert.Equal(t, NotApplicable, Decimal(nil, 2))
}

func TestConditionTable(t *testing.T) {
	out := ConditionTable(sampleAnalysis(t))

	assert.Contains(t, out, "Condition")
	assert.Contains(t, out, "0-shot")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "1200")

	var threeShot string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "3-shot") {
			threeShot = line
		}
	}
	require.NotEmpty(t, threeShot)
	assert.Contains(t, threeShot, NotApplicable)
}

func TestDomainTable(t *testing.T) {
	out := DomainTable(sampleAnalysis(t))

	for _, d := range benchmark.Domains() {
		assert.Contains(t, out, string(d))
	}
	assert.Contains(t, out, "100.0% (1/1)")
	assert.Contains(t, out, "0.0% (0/1)")
	assert.Contains(t, out, NotApplicable)
}

func TestProblemTable(t *testing.T) {
	out := ProblemTable(sampleAnalysis(t))

	assert.Contains(t, out, "math-3")
	assert.Contains(t, out, "1.00 (1/1)")
	assert.Contains(t, out, "0.00 (0/1)")
	// 3-shot has no records.
	assert.Contains(t, out, NotApplicable)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleAnalysis(t)))

	out := buf.String()
	assert.Contains(t, out, "Total experiments: 2")
	assert.Contains(t, out, "Results by condition")
	assert.Contains(t, out, "Accuracy by domain and condition")
	assert.Contains(t, out, "Mean correctness score by problem and condition")
	assert.Contains(t, out, "Results by model")
	assert.Contains(t, out, "claude")
}
