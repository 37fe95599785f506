package prompt

import "github.com/giantswarm/fewshot-bench/internal/benchmark"

// Instruction headers, one per domain.
const (
	mathematicsHeader = `You are an expert mathematician. Solve the following problem step by step.
Label each step ("Step 1:", "Step 2:", ...), use LaTeX notation for mathematical expressions,
and put your final answer in \boxed{}.`

	physicsHeader = `You are an expert physicist. Solve the following problem step by step,
stating the physical principles and formulas you use. Label each step ("Step 1:", "Step 2:", ...),
keep units throughout, use LaTeX notation for equations, and put your final answer in \boxed{}.`

	chemistryHeader = `You are an expert chemist. Solve the following problem step by step.
Label each step ("Step 1:", "Step 2:", ...), use correct chemical notation and LaTeX for formulas,
and put your final answer in \boxed{}.`

	biologyHeader = `You are an expert biologist. Solve the following problem step by step,
explaining the biological reasoning. Label each step ("Step 1:", "Step 2:", ...)
and put your final answer in \boxed{}.`
)

const (
	examplesIntro      = "Here are some worked examples:"
	trailingWithShots  = "Now solve the following problem in the same format:"
	trailingZeroShot   = "Solve the following problem:"
	problemLabel       = "Problem:"
	solutionLabel      = "Solution:"
	exampleLabelFormat = "Example %d:"
)

var headers = map[benchmark.Domain]string{
	benchmark.Mathematics: mathematicsHeader,
	benchmark.Physics:     physicsHeader,
	benchmark.Chemistry:   chemistryHeader,
	benchmark.Biology:     biologyHeader,
}

// Header returns the instruction header for a domain. Unknown domains get
// the mathematics header.
func Header(d benchmark.Domain) string {
	if h, ok := headers[d]; ok {
		return h
	}
	return mathematicsHeader
}
