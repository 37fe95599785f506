// Package analysis scores recorded experiment results and aggregates them by
// condition, domain, problem and model.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/prompt"
	"github.com/giantswarm/fewshot-bench/internal/results"
	"github.com/giantswarm/fewshot-bench/internal/scorer"
)

// Record is one scored experiment result.
type Record struct {
	ProblemID        string           `json:"problem_id"`
	Domain           benchmark.Domain `json:"domain"`
	Model            string           `json:"model"`
	Condition        string           `json:"condition"`
	Correct          bool             `json:"correct"`
	CorrectnessScore float64          `json:"correctness_score"`
	scorer.FormatResult
	Tokens    int   `json:"tokens"`
	LatencyMs int64 `json:"latency_ms"`
}

// Summary holds the statistics of one group of records. Averages are nil
// for an empty group.
type Summary struct {
	Correct             int      `json:"correct"`
	Total               int      `json:"total"`
	Accuracy            *float64 `json:"accuracy"`
	AvgCorrectnessScore *float64 `json:"avg_correctness_score"`
	AvgFormatScore      *float64 `json:"avg_format_score"`
	AvgTokens           *float64 `json:"avg_tokens"`
	AvgLatencyMs        *float64 `json:"avg_latency_ms"`
}

// CellSummary holds the counts of one matrix cell.
type CellSummary struct {
	Correct  int      `json:"correct"`
	Total    int      `json:"total"`
	Accuracy *float64 `json:"accuracy"`
}

// ProblemCell is one problem × condition cell.
type ProblemCell struct {
	CellSummary
	AvgCorrectnessScore *float64 `json:"avg_correctness_score"`
}

// Analysis is the derived summary written to the analysis file.
type Analysis struct {
	TotalExperiments int `json:"total_experiments"`

	// Row and column order for rendering.
	Conditions []string           `json:"conditions"`
	Domains    []benchmark.Domain `json:"domains"`
	Problems   []string           `json:"problems"`
	Models     []string           `json:"models"`

	ByCondition        map[string]*Summary                          `json:"by_condition"`
	ByDomainCondition  map[benchmark.Domain]map[string]*CellSummary `json:"by_domain_condition"`
	ByProblemCondition map[string]map[string]*ProblemCell           `json:"by_problem_condition"`
	ByModel            map[string]*Summary                          `json:"by_model"`
	Records            []Record                                     `json:"records"`
}

// Bank is the lookup the analyzer needs from the benchmark bank.
type Bank interface {
	scorer.AnswerKey
	DomainOf(problemID string) benchmark.Domain
}

// Score derives the record for a single result.
func Score(bank Bank, res results.ExperimentResult) Record {
	correct, score := scorer.Correctness(bank, res.ProblemID, res.Response)
	return Record{
		ProblemID:        res.ProblemID,
		Domain:           bank.DomainOf(res.ProblemID),
		Model:            res.Model,
		Condition:        res.Condition,
		Correct:          correct,
		CorrectnessScore: score,
		FormatResult:     scorer.Format(res.Response),
		Tokens:           res.Tokens,
		LatencyMs:        res.LatencyMs,
	}
}

// Analyze scores every result and aggregates the records. Every condition in
// conditions and every benchmark domain appears in the output, even when it
// has no records; conditions found only in the results are appended.
func Analyze(collection []results.ExperimentResult, bank Bank, conditions []string) *Analysis {
	records := make([]Record, 0, len(collection))
	for _, res := range collection {
		records = append(records, Score(bank, res))
	}

	a := &Analysis{
		TotalExperiments:   len(records),
		Conditions:         conditionOrder(conditions, records),
		Domains:            domainOrder(records),
		Problems:           firstSeen(records, func(r Record) string { return r.ProblemID }),
		Models:             firstSeen(records, func(r Record) string { return r.Model }),
		ByCondition:        make(map[string]*Summary),
		ByDomainCondition:  make(map[benchmark.Domain]map[string]*CellSummary),
		ByProblemCondition: make(map[string]map[string]*ProblemCell),
		ByModel:            make(map[string]*Summary),
		Records:            records,
	}

	byCondition := make(map[string]*accumulator)
	byCell := make(map[benchmark.Domain]map[string]*accumulator)
	byProblem := make(map[string]map[string]*accumulator)
	byModel := make(map[string]*accumulator)

	for _, r := range records {
		group(byCondition, r.Condition).add(r)
		group(nested(byCell, r.Domain), r.Condition).add(r)
		group(nested(byProblem, r.ProblemID), r.Condition).add(r)
		group(byModel, r.Model).add(r)
	}

	for _, c := range a.Conditions {
		a.ByCondition[c] = group(byCondition, c).summary()
	}
	for _, d := range a.Domains {
		cells := make(map[string]*CellSummary, len(a.Conditions))
		for _, c := range a.Conditions {
			cells[c] = group(nested(byCell, d), c).cell()
		}
		a.ByDomainCondition[d] = cells
	}
	for _, p := range a.Problems {
		row := make(map[string]*ProblemCell, len(a.Conditions))
		for _, c := range a.Conditions {
			acc := group(nested(byProblem, p), c)
			row[c] = &ProblemCell{CellSummary: *acc.cell(), AvgCorrectnessScore: acc.mean(acc.score)}
		}
		a.ByProblemCondition[p] = row
	}
	for _, m := range a.Models {
		a.ByModel[m] = group(byModel, m).summary()
	}

	return a
}

// WriteFile persists the analysis as indented JSON.
func WriteFile(path string, a *Analysis) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return results.WriteFileAtomic(path, data)
}

// Conditions returns the condition labels for the given shot counts.
func Conditions(shots []int) []string {
	labels := make([]string, 0, len(shots))
	for _, n := range shots {
		labels = append(labels, prompt.ConditionLabel(n))
	}
	return labels
}

type accumulator struct {
	n       int
	correct int
	score   float64
	format  float64
	tokens  float64
	latency float64
}

func (a *accumulator) add(r Record) {
	a.n++
	if r.Correct {
		a.correct++
	}
	a.score += r.CorrectnessScore
	a.format += float64(r.Score)
	a.tokens += float64(r.Tokens)
	a.latency += float64(r.LatencyMs)
}

// mean returns sum/n rounded to two decimals, or nil for an empty group.
func (a *accumulator) mean(sum float64) *float64 {
	if a.n == 0 {
		return nil
	}
	v := math.Round(sum/float64(a.n)*100) / 100
	return &v
}

func (a *accumulator) summary() *Summary {
	return &Summary{
		Correct:             a.correct,
		Total:               a.n,
		Accuracy:            a.mean(float64(a.correct)),
		AvgCorrectnessScore: a.mean(a.score),
		AvgFormatScore:      a.mean(a.format),
		AvgTokens:           a.mean(a.tokens),
		AvgLatencyMs:        a.mean(a.latency),
	}
}

func (a *accumulator) cell() *CellSummary {
	return &CellSummary{
		Correct:  a.correct,
		Total:    a.n,
		Accuracy: a.mean(float64(a.correct)),
	}
}

func group[K comparable](m map[K]*accumulator, key K) *accumulator {
	acc, ok := m[key]
	if !ok {
		acc = &accumulator{}
		m[key] = acc
	}
	return acc
}

func nested[K comparable](m map[K]map[string]*accumulator, key K) map[string]*accumulator {
	inner, ok := m[key]
	if !ok {
		inner = make(map[string]*accumulator)
		m[key] = inner
	}
	return inner
}

// conditionOrder returns the configured conditions followed by any others
// present in records, ordered by shot count.
func conditionOrder(configured []string, records []Record) []string {
	seen := make(map[string]bool)
	var order []string
	for _, c := range configured {
		if !seen[c] {
			seen[c] = true
			order = append(order, c)
		}
	}

	var extra []string
	for _, r := range records {
		if !seen[r.Condition] {
			seen[r.Condition] = true
			extra = append(extra, r.Condition)
		}
	}
	sort.SliceStable(extra, func(i, j int) bool {
		ni, okI := prompt.ParseCondition(extra[i])
		nj, okJ := prompt.ParseCondition(extra[j])
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return extra[i] < extra[j]
		}
	})
	return append(order, extra...)
}

// domainOrder returns the benchmark domains, plus Unknown when any record
// could not be attributed.
func domainOrder(records []Record) []benchmark.Domain {
	order := benchmark.Domains()
	for _, r := range records {
		if r.Domain == benchmark.Unknown {
			return append(order, benchmark.Unknown)
		}
	}
	return order
}

func firstSeen(records []Record, key func(Record) string) []string {
	seen := make(map[string]bool)
	var order []string
	for _, r := range records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	return order
}
