// Package history records generation runs in a SQLite database so earlier
// runs can be listed and inspected.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Counts holds a row count per table.
type Counts struct {
	Books    int `json:"books"`
	Students int `json:"students"`
	Loans    int `json:"loans"`
}

// Run is one recorded generation run.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      string
	Seed        uint64
	Targets     Counts
	Rows        Counts
	ConfigPath  string
	Config      string
	Error       string
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	started_at      TEXT NOT NULL,
	completed_at    TEXT,
	status          TEXT NOT NULL,
	seed            INTEGER NOT NULL,
	target_books    INTEGER NOT NULL,
	target_students INTEGER NOT NULL,
	target_loans    INTEGER NOT NULL,
	rows_books      INTEGER NOT NULL DEFAULT 0,
	rows_students   INTEGER NOT NULL DEFAULT 0,
	rows_loans      INTEGER NOT NULL DEFAULT 0,
	config_path     TEXT NOT NULL DEFAULT '',
	config          TEXT NOT NULL DEFAULT '',
	error           TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// timeLayout has fixed width so stored timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a run history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a run and returns its new ID. The ID,
// StartedAt and Status fields of run are ignored.
func (s *Store) CreateRun(ctx context.Context, run Run) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, status, seed, target_books, target_students, target_loans, config_path, config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(timeLayout), StatusRunning, int64(run.Seed),
		run.Targets.Books, run.Targets.Students, run.Targets.Loans, run.ConfigPath, run.Config)
	if err != nil {
		return "", fmt.Errorf("creating run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished with status and the row counts written.
func (s *Store) CompleteRun(ctx context.Context, id, status string, rows Counts, errMsg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET completed_at = ?, status = ?, rows_books = ?, rows_students = ?, rows_loans = ?, error = ?
		WHERE id = ?`,
		s.now().UTC().Format(timeLayout), status, rows.Books, rows.Students, rows.Loans, errMsg, id)
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("completing run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

const selectRuns = `
	SELECT id, started_at, completed_at, status, seed,
	       target_books, target_students, target_loans,
	       rows_books, rows_students, rows_loans,
	       config_path, config, error
	FROM runs`

// GetAllRuns returns every run, newest first.
func (s *Store) GetAllRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunByID returns the run with id.
func (s *Store) GetRunByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r         Run
		started   string
		completed sql.NullString
		seed      int64
	)
	err := sc.Scan(&r.ID, &started, &completed, &r.Status, &seed,
		&r.Targets.Books, &r.Targets.Students, &r.Targets.Loans,
		&r.Rows.Books, &r.Rows.Students, &r.Rows.Loans,
		&r.ConfigPath, &r.Config, &r.Error)
	if err != nil {
		return Run{}, err
	}
	r.Seed = uint64(seed)
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
	}
	if completed.Valid {
		t, err := time.Parse(timeLayout, completed.String)
		if err != nil {
			return Run{}, fmt.Errorf("parsing completion time of run %s: %w", r.ID, err)
		}
		r.CompletedAt = &t
	}
	return r, nil
}
