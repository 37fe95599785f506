package benchmark

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedData embed.FS

const (
	problemsFile = "problems.yaml"
	examplesFile = "examples.yaml"
	answersFile  = "answers.yaml"
)

// Bank holds the static problem set, example banks and answer key.
type Bank struct {
	Problems []Problem
	Examples map[Domain][]FewShotExample

	answers map[string]ExpectedAnswer
	byID    map[string]int
}

type problemsDoc struct {
	Problems []Problem `yaml:"problems"`
}

type examplesDoc struct {
	Examples map[Domain][]FewShotExample `yaml:"examples"`
}

type answersDoc struct {
	Answers []ExpectedAnswer `yaml:"answers"`
}

// Load reads the bank. Each data file is looked up first in externalDir (if
// provided), then in the embedded data.
func Load(externalDir string) (*Bank, error) {
	var problems problemsDoc
	if err := readDoc(externalDir, problemsFile, &problems); err != nil {
		return nil, err
	}
	var examples examplesDoc
	if err := readDoc(externalDir, examplesFile, &examples); err != nil {
		return nil, err
	}
	var answers answersDoc
	if err := readDoc(externalDir, answersFile, &answers); err != nil {
		return nil, err
	}
	return NewBank(problems.Problems, examples.Examples, answers.Answers)
}

// NewBank validates and indexes the given tables.
func NewBank(problems []Problem, examples map[Domain][]FewShotExample, answers []ExpectedAnswer) (*Bank, error) {
	b := &Bank{
		Problems: problems,
		Examples: examples,
		answers:  make(map[string]ExpectedAnswer, len(answers)),
		byID:     make(map[string]int, len(problems)),
	}
	if b.Examples == nil {
		b.Examples = make(map[Domain][]FewShotExample)
	}

	for i, p := range problems {
		if p.ID == "" {
			return nil, fmt.Errorf("problem %d has no id", i+1)
		}
		if _, err := ParseDomain(string(p.Domain)); err != nil {
			return nil, fmt.Errorf("problem %s: %w", p.ID, err)
		}
		if _, dup := b.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate problem id %q", p.ID)
		}
		b.byID[p.ID] = i
	}

	for d := range b.Examples {
		if _, err := ParseDomain(string(d)); err != nil {
			return nil, fmt.Errorf("example bank: %w", err)
		}
	}

	for _, a := range answers {
		i, ok := b.byID[a.ProblemID]
		if !ok {
			return nil, fmt.Errorf("answer key references unknown problem %q", a.ProblemID)
		}
		if _, err := ParseDomain(string(a.Domain)); err != nil {
			return nil, fmt.Errorf("answer key entry %s: %w", a.ProblemID, err)
		}
		if want := problems[i].Domain; a.Domain != want {
			return nil, fmt.Errorf("answer key entry %s has domain %s, problem has %s", a.ProblemID, a.Domain, want)
		}
		if _, dup := b.answers[a.ProblemID]; dup {
			return nil, fmt.Errorf("duplicate answer key entry for %q", a.ProblemID)
		}
		b.answers[a.ProblemID] = a
	}

	return b, nil
}

// Problem looks up a problem by ID.
func (b *Bank) Problem(id string) (Problem, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Problem{}, false
	}
	return b.Problems[i], true
}

// Answer looks up the answer key entry for a problem ID.
func (b *Bank) Answer(id string) (ExpectedAnswer, bool) {
	a, ok := b.answers[id]
	return a, ok
}

// ExamplesFor returns the ordered example bank for a domain.
func (b *Bank) ExamplesFor(d Domain) []FewShotExample {
	return b.Examples[d]
}

// DomainOf returns the domain of a problem ID, or Unknown.
func (b *Bank) DomainOf(id string) Domain {
	if p, ok := b.Problem(id); ok {
		return p.Domain
	}
	if a, ok := b.answers[id]; ok {
		return a.Domain
	}
	return Unknown
}

// Select returns problems matching the given IDs and domains. Empty filters
// match everything; order follows the bank.
func (b *Bank) Select(ids []string, domains []Domain) ([]Problem, error) {
	for _, id := range ids {
		if _, ok := b.byID[id]; !ok {
			return nil, &UnknownProblemError{ID: id}
		}
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	domainSet := make(map[Domain]bool, len(domains))
	for _, d := range domains {
		domainSet[d] = true
	}

	var out []Problem
	for _, p := range b.Problems {
		if len(idSet) > 0 && !idSet[p.ID] {
			continue
		}
		if len(domainSet) > 0 && !domainSet[p.Domain] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func readDoc(externalDir, name string, out any) error {
	data, err := readDataFile(externalDir, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func readDataFile(externalDir, name string) ([]byte, error) {
	if externalDir != "" {
		data, err := os.ReadFile(filepath.Join(externalDir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	// embed.FS always uses forward slashes.
	data, err := fs.ReadFile(embeddedData, path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
	}
	return data, nil
}
