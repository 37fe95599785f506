// Package model invokes language model backends. Every invocation returns
// an Outcome; failures are captured in the Outcome rather than returned, so
// a single failed call never aborts a batch.
package model

import (
	"context"
	"fmt"
	"time"
)

// ErrorPrefix marks a response that records a failed invocation.
const ErrorPrefix = "ERROR: "

// DefaultTimeout is the per-call ceiling applied when none is configured.
const DefaultTimeout = 2 * time.Minute

// Invoker sends a prompt to a model backend.
type Invoker interface {
	// Name returns the model selector, e.g. "claude".
	Name() string

	// Invoke sends the prompt and waits for the response or the timeout.
	Invoke(ctx context.Context, prompt string) Outcome

	// Available returns nil if the backend can be used on this machine.
	Available() error
}

// Outcome is the result of a single invocation.
type Outcome struct {
	Text      string
	Latency   time.Duration
	Tokens    int // output tokens reported by the backend, 0 if unknown
	Truncated bool
	Err       error
}

// Failed reports whether the invocation failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Response returns the text to record: the model output, or the failure
// message prefixed with ErrorPrefix.
func (o Outcome) Response() string {
	if o.Err != nil {
		return ErrorPrefix + o.Err.Error()
	}
	return o.Text
}

// Registry maps model selectors to invokers, preserving registration order.
type Registry struct {
	invokers map[string]Invoker
	order    []string
}

// NewRegistry creates a registry holding the given invokers.
func NewRegistry(invokers ...Invoker) *Registry {
	r := &Registry{invokers: make(map[string]Invoker)}
	for _, inv := range invokers {
		r.Register(inv)
	}
	return r
}

// Register adds or replaces an invoker.
func (r *Registry) Register(inv Invoker) {
	if _, exists := r.invokers[inv.Name()]; !exists {
		r.order = append(r.order, inv.Name())
	}
	r.invokers[inv.Name()] = inv
}

// Lookup returns the invoker for a selector.
func (r *Registry) Lookup(name string) (Invoker, error) {
	inv, ok := r.invokers[name]
	if !ok {
		return nil, &UnsupportedModelError{Name: name, Known: r.Names()}
	}
	return inv, nil
}

// Names returns the registered selectors in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Available returns the invokers usable on this machine, in registration
// order, together with the reasons the others are not.
func (r *Registry) Available() ([]Invoker, map[string]error) {
	var ok []Invoker
	unavailable := make(map[string]error)
	for _, name := range r.order {
		inv := r.invokers[name]
		if err := inv.Available(); err != nil {
			unavailable[name] = err
			continue
		}
		ok = append(ok, inv)
	}
	return ok, unavailable
}

// UnsupportedModelError is returned when an unknown model selector is requested.
type UnsupportedModelError struct {
	Name  string
	Known []string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model: %s (known: %v)", e.Name, e.Known)
}
