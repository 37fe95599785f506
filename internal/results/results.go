// Package results persists the experiment result collection shared by the
// runner and the analyzer.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by Load when the results file does not exist.
var ErrNotFound = errors.New("results file not found")

// ExperimentResult records one (problem, model, condition) run.
type ExperimentResult struct {
	ProblemID string    `json:"problem_id"`
	Model     string    `json:"model"`
	Condition string    `json:"condition"`
	Shots     int       `json:"shots"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Tokens    int       `json:"tokens"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
}

// Key identifies the experiment a result belongs to.
func (r ExperimentResult) Key() string {
	return r.ProblemID + "|" + r.Model + "|" + r.Condition
}

// EstimateTokens approximates a token count as the number of
// whitespace-separated words.
func EstimateTokens(text string) int {
	return len(strings.Fields(text))
}

// Load reads a results file. A missing file yields ErrNotFound.
func Load(path string) ([]ExperimentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var out []ExperimentResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}
	return out, nil
}

// Save writes the full collection to path, replacing any previous content.
// The file is written to a sibling temp file first and renamed into place so
// an interrupted write never leaves a truncated collection behind.
func Save(path string, collection []ExperimentResult) error {
	if collection == nil {
		collection = []ExperimentResult{}
	}
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to path via a temp file and rename, creating
// the parent directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Recorder accumulates results and persists the collection after every
// append.
type Recorder struct {
	path       string
	collection []ExperimentResult
	done       map[string]bool
}

// NewRecorder starts a recorder seeded with existing results.
func NewRecorder(path string, existing []ExperimentResult) *Recorder {
	r := &Recorder{
		path:       path,
		collection: append([]ExperimentResult(nil), existing...),
		done:       make(map[string]bool, len(existing)),
	}
	for _, res := range existing {
		r.done[res.Key()] = true
	}
	return r
}

// Append adds a result and re-serializes the whole collection.
func (r *Recorder) Append(res ExperimentResult) error {
	r.collection = append(r.collection, res)
	r.done[res.Key()] = true
	return Save(r.path, r.collection)
}

// Has reports whether a result with the same key is already recorded.
func (r *Recorder) Has(res ExperimentResult) bool {
	return r.done[res.Key()]
}

// Results returns the recorded collection.
func (r *Recorder) Results() []ExperimentResult {
	return r.collection
}

// Path returns the results file path.
func (r *Recorder) Path() string {
	return r.path
}
