package scorer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
)

// CorrectThreshold is the minimum fraction of matched patterns for a
// response to count as correct.
const CorrectThreshold = 0.5

// Format score weights.
const (
	latexWeight = 3
	boxedWeight = 3
	stepsWeight = 2
	tableWeight = 2

	// tableDelimiterMin is the number of '|' characters a response must
	// exceed to be treated as containing a table.
	tableDelimiterMin = 3
)

// AnswerKey resolves expected answers by problem ID.
type AnswerKey interface {
	Answer(problemID string) (benchmark.ExpectedAnswer, bool)
}

// Correctness scores a response against the expected patterns for a
// problem. A problem with no answer key entry scores (false, 0).
func Correctness(key AnswerKey, problemID, response string) (bool, float64) {
	answer, ok := key.Answer(problemID)
	if !ok {
		return false, 0
	}
	score := PatternScore(answer.Patterns, response)
	return score >= CorrectThreshold, score
}

// PatternScore returns the fraction of patterns found in response. A
// pattern matches case-insensitively either as is or with all whitespace
// removed from both sides.
func PatternScore(patterns []string, response string) float64 {
	if len(patterns) == 0 {
		return 0
	}

	lower := strings.ToLower(response)
	compact := stripSpace(lower)

	matched := 0
	for _, p := range patterns {
		lp := strings.ToLower(p)
		if strings.Contains(lower, lp) || strings.Contains(compact, stripSpace(lp)) {
			matched++
		}
	}
	return float64(matched) / float64(len(patterns))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FormatResult holds the format adherence flags and weighted score.
type FormatResult struct {
	HasLatex bool `json:"has_latex"`
	HasBoxed bool `json:"has_boxed"`
	HasSteps bool `json:"has_steps"`
	HasTable bool `json:"has_table"`
	Score    int  `json:"format_score"`
}

var (
	finalAnswerPattern = regexp.MustCompile(`(?i)final answer\s*:`)
	stepPattern        = regexp.MustCompile(`(?i)\bstep\s*\d+`)
)

// Format detects markup conventions in a response.
func Format(response string) FormatResult {
	r := FormatResult{
		HasLatex: strings.Contains(response, "$") ||
			strings.Contains(response, `\(`) ||
			strings.Contains(response, `\[`),
		HasBoxed: strings.Contains(response, `\boxed`) || finalAnswerPattern.MatchString(response),
		HasSteps: stepPattern.MatchString(response),
		HasTable: strings.Count(response, "|") > tableDelimiterMin,
	}

	if r.HasLatex {
		r.Score += latexWeight
	}
	if r.HasBoxed {
		r.Score += boxedWeight
	}
	if r.HasSteps {
		r.Score += stepsWeight
	}
	if r.HasTable {
		r.Score += tableWeight
	}
	return r
}
