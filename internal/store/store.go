// Package store persists computed coverage results in SQLite, keyed by
// (country_code, max_depth). The engine is pure and deterministic, so a
// stored result stays valid until the boundary data itself changes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/geocover-cli/internal/coverage"
)

// Store wraps the SQLite result cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and
// configures WAL mode.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	countries   INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL DEFAULT 'running',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS coverage_results (
	country_code TEXT NOT NULL,
	max_depth    INTEGER NOT NULL,
	run_id       TEXT REFERENCES runs(id),
	payload      TEXT NOT NULL,
	computed_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (country_code, max_depth)
);

CREATE INDEX IF NOT EXISTS idx_coverage_results_run_id ON coverage_results(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a batch computation and returns its id.
func (s *Store) CreateRun(ctx context.Context, source string, countries int) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, countries, status) VALUES (?, ?, ?, 'running')`,
		id, source, countries,
	)
	if err != nil {
		return "", eris.Wrap(err, "store: create run")
	}
	return id, nil
}

// FinishRun marks a run as completed or failed.
func (s *Store) FinishRun(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = datetime('now') WHERE id = ?`,
		status, id,
	)
	return eris.Wrap(err, "store: finish run")
}

// SaveResult upserts a coverage result under its (country_code, max_depth)
// key. An empty runID leaves the result unattributed.
func (s *Store) SaveResult(ctx context.Context, runID string, res *coverage.CountryResult, maxDepth int) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "store: marshal result")
	}

	var run any
	if runID != "" {
		run = runID
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO coverage_results (country_code, max_depth, run_id, payload, computed_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT (country_code, max_depth) DO UPDATE SET
			run_id = excluded.run_id,
			payload = excluded.payload,
			computed_at = excluded.computed_at`,
		res.CountryCode, maxDepth, run, string(payload),
	)
	return eris.Wrap(err, "store: save result")
}

// GetResult returns the stored result for a country at a depth limit, or
// (nil, nil) when no result is stored.
func (s *Store) GetResult(ctx context.Context, countryCode string, maxDepth int) (*coverage.CountryResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM coverage_results WHERE country_code = ? AND max_depth = ?`,
		countryCode, maxDepth,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get result")
	}

	var res coverage.CountryResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal result")
	}
	return &res, nil
}

// Stats summarizes the stored results.
type Stats struct {
	Results    int        `json:"results"`
	Countries  int        `json:"countries"`
	Runs       int        `json:"runs"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
}

// Stats reports cache contents.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var last sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT country_code),
		       (SELECT COUNT(*) FROM runs),
		       MAX(computed_at)
		FROM coverage_results`,
	).Scan(&st.Results, &st.Countries, &st.Runs, &last)
	if err != nil {
		return nil, eris.Wrap(err, "store: stats")
	}
	if last.Valid {
		if t, perr := time.Parse("2006-01-02 15:04:05", last.String); perr == nil {
			st.LastUpdate = &t
		}
	}
	return &st, nil
}

// Clear removes all stored results. Run history is kept.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM coverage_results`)
	if err != nil {
		return 0, eris.Wrap(err, "store: clear")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "store: rows affected")
	}
	return n, nil
}
