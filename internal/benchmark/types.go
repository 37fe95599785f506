package benchmark

import "fmt"

// Domain is the subject area a problem belongs to.
type Domain string

const (
	Mathematics Domain = "mathematics"
	Physics     Domain = "physics"
	Chemistry   Domain = "chemistry"
	Biology     Domain = "biology"

	// Unknown is reported for results whose problem is not in the bank.
	Unknown Domain = "unknown"
)

// Domains returns the benchmark domains in reporting order.
func Domains() []Domain {
	return []Domain{Mathematics, Physics, Chemistry, Biology}
}

// ParseDomain validates a domain name.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// Problem is a single benchmark task.
type Problem struct {
	ID             string `yaml:"id" json:"id"`
	Domain         Domain `yaml:"domain" json:"domain"`
	Difficulty     string `yaml:"difficulty" json:"difficulty"`
	Prompt         string `yaml:"prompt" json:"prompt"`
	ExpectedAnswer string `yaml:"expected_answer,omitempty" json:"expected_answer,omitempty"`
	AnswerFormat   string `yaml:"answer_format" json:"answer_format"`
}

// FewShotExample is a worked problem used to fill few-shot prompts.
type FewShotExample struct {
	Problem  string `yaml:"problem"`
	Solution string `yaml:"solution"`
}

// ExpectedAnswer lists the substrings a correct response should contain.
// Canonical is documentation only and is never matched.
type ExpectedAnswer struct {
	ProblemID string   `yaml:"problem_id" json:"problem_id"`
	Domain    Domain   `yaml:"domain" json:"domain"`
	Patterns  []string `yaml:"patterns" json:"patterns"`
	Canonical string   `yaml:"canonical" json:"canonical"`
}

// UnknownProblemError is returned when a problem ID is not in the bank.
type UnknownProblemError struct {
	ID string
}

func (e *UnknownProblemError) Error() string {
	return "unknown problem: " + e.ID
}
