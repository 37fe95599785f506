package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/results"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(t *testing.T) ([]results.ExperimentResult, []analysis.Record) {
	t.Helper()
	bank, err := benchmark.Load("")
	require.NoError(t, err)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	collection := []results.ExperimentResult{
		{RunID: "run-1", ProblemID: "math-3", Model: "claude", Condition: "0-shot", Prompt: "p", Response: "x = 3", Tokens: 3, LatencyMs: 10, Timestamp: now},
		{RunID: "run-1", ProblemID: "math-3", Model: "claude", Condition: "1-shot", Shots: 1, Prompt: "p", Response: "no", Tokens: 1, LatencyMs: 20, Timestamp: now},
		{RunID: "run-1", ProblemID: "physics-1", Model: "claude", Condition: "1-shot", Shots: 1, Prompt: "p", Response: "t = 2 s", Tokens: 4, LatencyMs: 30, Timestamp: now},
	}
	a := analysis.Analyze(collection, bank, analysis.Conditions([]int{0, 1}))
	return collection, a.Records
}

func TestExport(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	collection, records := sample(t)

	require.NoError(t, s.Export(ctx, collection, records))

	nResults, nRecords, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, nResults)
	assert.Equal(t, 3, nRecords)

	rows, err := s.AccuracyByCondition(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ConditionAccuracy{
		{Condition: "0-shot", Correct: 1, Total: 1},
		{Condition: "1-shot", Correct: 1, Total: 2},
	}, rows)
}

func TestExportReplacesPreviousContents(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	collection, records := sample(t)

	require.NoError(t, s.Export(ctx, collection, records))
	require.NoError(t, s.Export(ctx, collection[:1], records[:1]))

	nResults, nRecords, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, nResults)
	assert.Equal(t, 1, nRecords)
}

func TestExportEmpty(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	require.NoError(t, s.Export(ctx, nil, nil))
	rows, err := s.AccuracyByCondition(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
