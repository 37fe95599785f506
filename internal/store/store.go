// Package store exports experiment results and analysis records to SQLite
// for ad hoc querying.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/giantswarm/fewshot-bench/internal/analysis"
	"github.com/giantswarm/fewshot-bench/internal/results"
)

const schema = `
CREATE TABLE IF NOT EXISTS experiment_results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT,
	problem_id  TEXT NOT NULL,
	model       TEXT NOT NULL,
	condition   TEXT NOT NULL,
	shots       INTEGER NOT NULL,
	prompt      TEXT NOT NULL,
	response    TEXT NOT NULL,
	tokens      INTEGER NOT NULL,
	latency_ms  INTEGER NOT NULL,
	timestamp   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_records (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	problem_id        TEXT NOT NULL,
	domain            TEXT NOT NULL,
	model             TEXT NOT NULL,
	condition         TEXT NOT NULL,
	correct           INTEGER NOT NULL,
	correctness_score REAL NOT NULL,
	format_score      INTEGER NOT NULL,
	has_latex         INTEGER NOT NULL,
	has_boxed         INTEGER NOT NULL,
	has_steps         INTEGER NOT NULL,
	has_table         INTEGER NOT NULL,
	tokens            INTEGER NOT NULL,
	latency_ms        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_condition ON analysis_records(condition);
`

// Store is a SQLite export database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Export replaces the contents of both tables in a single transaction.
func (s *Store) Export(ctx context.Context, collection []results.ExperimentResult, records []analysis.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM experiment_results`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	for _, r := range collection {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO experiment_results
			 (run_id, problem_id, model, condition, shots, prompt, response, tokens, latency_ms, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.ProblemID, r.Model, r.Condition, r.Shots, r.Prompt, r.Response,
			r.Tokens, r.LatencyMs, r.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.Key(), err)
		}
	}

	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO analysis_records
			 (problem_id, domain, model, condition, correct, correctness_score, format_score,
			  has_latex, has_boxed, has_steps, has_table, tokens, latency_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ProblemID, string(r.Domain), r.Model, r.Condition, r.Correct, r.CorrectnessScore, r.Score,
			r.HasLatex, r.HasBoxed, r.HasSteps, r.HasTable, r.Tokens, r.LatencyMs,
		)
		if err != nil {
			return fmt.Errorf("insert record %s/%s/%s: %w", r.ProblemID, r.Model, r.Condition, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ConditionAccuracy is one row of the per-condition accuracy query.
type ConditionAccuracy struct {
	Condition string
	Correct   int
	Total     int
}

// AccuracyByCondition aggregates the exported analysis records by condition.
func (s *Store) AccuracyByCondition(ctx context.Context) ([]ConditionAccuracy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT condition, SUM(correct), COUNT(*)
		 FROM analysis_records
		 GROUP BY condition
		 ORDER BY condition`)
	if err != nil {
		return nil, fmt.Errorf("query accuracy: %w", err)
	}
	defer rows.Close()

	var out []ConditionAccuracy
	for rows.Next() {
		var row ConditionAccuracy
		if err := rows.Scan(&row.Condition, &row.Correct, &row.Total); err != nil {
			return nil, fmt.Errorf("scan accuracy: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Counts returns the number of rows in each table.
func (s *Store) Counts(ctx context.Context) (resultsCount, recordsCount int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM experiment_results`).Scan(&resultsCount); err != nil {
		return 0, 0, fmt.Errorf("count results: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_records`).Scan(&recordsCount); err != nil {
		return 0, 0, fmt.Errorf("count records: %w", err)
	}
	return resultsCount, recordsCount, nil
}
