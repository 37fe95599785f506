package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
)

type staticKey map[string]benchmark.ExpectedAnswer

func (k staticKey) Answer(id string) (benchmark.ExpectedAnswer, bool) {
	a, ok := k[id]
	return a, ok
}

func TestPatternScore(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		response string
		want     float64
	}{
		{
			name:     "case and whitespace insensitive",
			patterns: []string{"ln(x) + 1"},
			response: "X^X (LN(X)+1)",
			want:     1,
		},
		{
			name:     "both patterns",
			patterns: []string{"ln(x) + 1", "x^x"},
			response: `$f'(x) = x^x(\ln(x) + 1)$`,
			want:     1,
		},
		{
			name:     "one of two",
			patterns: []string{"CH4 + 2O2", "CO2 + 2H2O"},
			response: "CH4 + 2 O2 -> CO2 + H2O",
			want:     0.5,
		},
		{
			name:     "none",
			patterns: []string{"9 J"},
			response: "I don't know",
			want:     0,
		},
		{
			name:     "no patterns",
			patterns: nil,
			response: "anything",
			want:     0,
		},
		{
			name:     "empty response",
			patterns: []string{"2"},
			response: "",
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PatternScore(tt.patterns, tt.response), 1e-9)
		})
	}
}

func TestCorrectness(t *testing.T) {
	bank, err := benchmark.Load("")
	require.NoError(t, err)

	tests := []struct {
		name      string
		problemID string
		response  string
		score     float64
		correct   bool
	}{
		{
			name:      "math-3 both patterns",
			problemID: "math-3",
			response:  "Subtracting 5 and dividing by 2 gives x = 3.",
			score:     1,
			correct:   true,
		},
		{
			// Only "3" occurs; "= 3" does not. One of two patterns is
			// 0.5, which meets the threshold. Not 1.0.
			name:      "math-3 bare answer matches one of two patterns",
			problemID: "math-3",
			response:  "The answer is 3",
			score:     0.5,
			correct:   true,
		},
		{
			name:      "math-1 spacing and case",
			problemID: "math-1",
			response:  "X^X (LN(X)+1)",
			score:     1,
			correct:   true,
		},
		{
			name:      "wrong answer",
			problemID: "physics-2",
			response:  "The kinetic energy is 6 J.",
			score:     0,
			correct:   false,
		},
		{
			name:      "unknown problem",
			problemID: "astro-9",
			response:  "The answer is 3",
			score:     0,
			correct:   false,
		},
		{
			name:      "error response",
			problemID: "math-2",
			response:  "ERROR: command timed out after 2m0s",
			score:     0,
			correct:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, score := Correctness(bank, tt.problemID, tt.response)
			assert.InDelta(t, tt.score, score, 1e-9)
			assert.Equal(t, tt.correct, correct)
		})
	}
}

func TestCorrectnessInvariants(t *testing.T) {
	key := staticKey{
		"p": {ProblemID: "p", Patterns: []string{"a", "b", "c"}},
	}
	responses := []string{"", "a", "a b", "abc", "A B C", "zzz"}

	for _, r := range responses {
		correct, score := Correctness(key, "p", r)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		assert.Equal(t, score >= CorrectThreshold, correct, "response %q", r)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     FormatResult
	}{
		{
			name:     "latex and boxed",
			response: `We get $x^2$ so the result is \boxed{3}.`,
			want:     FormatResult{HasLatex: true, HasBoxed: true, Score: 6},
		},
		{
			name:     "plain text",
			response: "The answer is 3",
			want:     FormatResult{},
		},
		{
			name:     "steps only",
			response: "Step 1: add. Step 2: divide.",
			want:     FormatResult{HasSteps: true, Score: 2},
		},
		{
			name:     "labeled final answer",
			response: "final answer: 42",
			want:     FormatResult{HasBoxed: true, Score: 3},
		},
		{
			name:     "display math delimiters",
			response: `\[ E = mc^2 \]`,
			want:     FormatResult{HasLatex: true, Score: 3},
		},
		{
			name:     "table",
			response: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:     FormatResult{HasTable: true, Score: 2},
		},
		{
			name:     "three pipes is not a table",
			response: "a | b | c | d",
			want:     FormatResult{},
		},
		{
			name:     "everything",
			response: "Step 1: $x$\n| a | b |\n| 1 | 2 |\n\\boxed{1}",
			want:     FormatResult{HasLatex: true, HasBoxed: true, HasSteps: true, HasTable: true, Score: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.response))
		})
	}
}
