package runner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/giantswarm/fewshot-bench/internal/benchmark"
	"github.com/giantswarm/fewshot-bench/internal/model"
)

// Selection narrows the benchmark to a subset. Empty fields select
// everything, except Models and Shots which must be set.
type Selection struct {
	Problems []string
	Domains  []string
	Models   []string
	Shots    []int
}

// Plan expands problems, shot counts and models into experiments. Every
// model sees a given (problem, shot count) prompt back to back.
func Plan(problems []benchmark.Problem, shots []int, invokers []model.Invoker) []Experiment {
	plan := make([]Experiment, 0, len(problems)*len(shots)*len(invokers))
	for _, p := range problems {
		for _, n := range shots {
			for _, inv := range invokers {
				plan = append(plan, Experiment{Problem: p, Model: inv, Shots: n})
			}
		}
	}
	return plan
}

// BuildPlan resolves a selection against the bank and registry. Models that
// are registered but not usable on this machine are skipped and reported in
// the returned map; it is an error if none remain.
func BuildPlan(bank *benchmark.Bank, reg *model.Registry, sel Selection) ([]Experiment, map[string]error, error) {
	if len(sel.Shots) == 0 {
		return nil, nil, errors.New("no shot counts selected")
	}
	for _, n := range sel.Shots {
		if n < 0 {
			return nil, nil, fmt.Errorf("shot counts must not be negative, got %d", n)
		}
	}
	if len(sel.Models) == 0 {
		return nil, nil, errors.New("no models selected")
	}

	domains := make([]benchmark.Domain, 0, len(sel.Domains))
	for _, name := range sel.Domains {
		d, err := benchmark.ParseDomain(name)
		if err != nil {
			return nil, nil, err
		}
		domains = append(domains, d)
	}

	problems, err := bank.Select(sel.Problems, domains)
	if err != nil {
		return nil, nil, err
	}
	if len(problems) == 0 {
		return nil, nil, errors.New("no problems match the selection")
	}

	var invokers []model.Invoker
	unavailable := make(map[string]error)
	for _, name := range sel.Models {
		inv, err := reg.Lookup(name)
		if err != nil {
			return nil, nil, err
		}
		if err := inv.Available(); err != nil {
			slog.Warn("skipping unavailable model", "model", name, "error", err)
			unavailable[name] = err
			continue
		}
		invokers = append(invokers, inv)
	}
	if len(invokers) == 0 {
		return nil, unavailable, errors.New("none of the selected models is available")
	}

	return Plan(problems, sel.Shots, invokers), unavailable, nil
}
