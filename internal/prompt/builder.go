// Package prompt renders zero-shot and few-shot prompts from the static
// instruction headers and example banks.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
)

// DefaultShots are the shot-count conditions of a full batch.
var DefaultShots = []int{0, 1, 3, 5}

// Build renders the prompt for a problem with up to count worked examples
// taken in order from examples. Counts beyond the bank size are clamped and
// counts <= 0 omit the example section.
func Build(p benchmark.Problem, examples []benchmark.FewShotExample, count int) string {
	n := min(max(count, 0), len(examples))

	var b strings.Builder
	b.WriteString(Header(p.Domain))
	b.WriteString("\n\n")

	if n > 0 {
		b.WriteString(examplesIntro)
		b.WriteString("\n\n")
		for i, ex := range examples[:n] {
			fmt.Fprintf(&b, exampleLabelFormat+"\n", i+1)
			fmt.Fprintf(&b, "%s %s\n", problemLabel, strings.TrimSpace(ex.Problem))
			fmt.Fprintf(&b, "%s\n%s\n\n", solutionLabel, strings.TrimSpace(ex.Solution))
		}
		b.WriteString(trailingWithShots)
	} else {
		b.WriteString(trailingZeroShot)
	}

	fmt.Fprintf(&b, "\n%s %s\n%s\n", problemLabel, strings.TrimSpace(p.Prompt), solutionLabel)
	return b.String()
}

// ForBank builds the prompt for p using the bank's example set for its domain.
func ForBank(bank *benchmark.Bank, p benchmark.Problem, count int) string {
	return Build(p, bank.ExamplesFor(p.Domain), count)
}

// ConditionLabel returns the condition name for a shot count, e.g. "3-shot".
func ConditionLabel(shots int) string {
	return strconv.Itoa(shots) + "-shot"
}

// ParseCondition returns the shot count encoded in a condition label.
func ParseCondition(label string) (int, bool) {
	num, ok := strings.CutSuffix(label, "-shot")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
