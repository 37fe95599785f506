// Package report renders an analysis as console tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
)

// NotApplicable is shown for statistics of empty groups.
const NotApplicable = "N/A"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render writes every table for a, separated by blank lines.
func Render(w io.Writer, a *analysis.Analysis) error {
	sections := []struct {
		title string
		body  string
	}{
		{"Results by condition", ConditionTable(a)},
		{"Accuracy by domain and condition", DomainTable(a)},
		{"Mean correctness score by problem and condition", ProblemTable(a)},
		{"Results by model", ModelTable(a)},
	}

	if _, err := fmt.Fprintf(w, "Total experiments: %d\n\n", a.TotalExperiments); err != nil {
		return err
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", titleStyle.Render(s.title), s.body); err != nil {
			return err
		}
	}
	return nil
}

// ConditionTable has one row per condition with every summary statistic.
func ConditionTable(a *analysis.Analysis) string {
	t := newTable("Condition", "Correct", "Total", "Accuracy", "Avg score", "Avg format", "Avg tokens", "Avg latency (ms)")
	for _, c := range a.Conditions {
		t.Row(summaryRow(c, a.ByCondition[c])...)
	}
	return t.String()
}

// ModelTable has one row per model with every summary statistic.
func ModelTable(a *analysis.Analysis) string {
	t := newTable("Model", "Correct", "Total", "Accuracy", "Avg score", "Avg format", "Avg tokens", "Avg latency (ms)")
	for _, m := range a.Models {
		t.Row(summaryRow(m, a.ByModel[m])...)
	}
	return t.String()
}

// DomainTable is the domain × condition accuracy cross-tab.
func DomainTable(a *analysis.Analysis) string {
	t := newTable(append([]string{"Domain"}, a.Conditions...)...)
	for _, d := range a.Domains {
		row := []string{string(d)}
		for _, c := range a.Conditions {
			cell := a.ByDomainCondition[d][c]
			if cell == nil || cell.Accuracy == nil {
				row = append(row, NotApplicable)
				continue
			}
			row = append(row, fmt.Sprintf("%s (%d/%d)", Percent(cell.Accuracy), cell.Correct, cell.Total))
		}
		t.Row(row...)
	}
	return t.String()
}

// ProblemTable is the problem × condition matrix of mean correctness scores,
// each followed by the correct/total count.
func ProblemTable(a *analysis.Analysis) string {
	t := newTable(append([]string{"Problem"}, a.Conditions...)...)
	for _, p := range a.Problems {
		row := []string{p}
		for _, c := range a.Conditions {
			cell := a.ByProblemCondition[p][c]
			if cell == nil || cell.Total == 0 {
				row = append(row, NotApplicable)
				continue
			}
			row = append(row, fmt.Sprintf("%s (%d/%d)", Decimal(cell.AvgCorrectnessScore, 2), cell.Correct, cell.Total))
		}
		t.Row(row...)
	}
	return t.String()
}

// Percent formats a fraction as a percentage, or NotApplicable.
func Percent(v *float64) string {
	if v == nil {
		return NotApplicable
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}

// Decimal formats v with prec decimals, or NotApplicable.
func Decimal(v *float64, prec int) string {
	if v == nil {
		return NotApplicable
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func summaryRow(label string, s *analysis.Summary) []string {
	if s == nil {
		s = &analysis.Summary{}
	}
	return []string{
		label,
		strconv.Itoa(s.Correct),
		strconv.Itoa(s.Total),
		Percent(s.Accuracy),
		Decimal(s.AvgCorrectnessScore, 2),
		Decimal(s.AvgFormatScore, 2),
		Decimal(s.AvgTokens, 1),
		Decimal(s.AvgLatencyMs, 0),
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
