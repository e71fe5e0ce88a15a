package journal

import (
	"database/sql"
	"fmt"
	"time"

	"media-rename/internal/journal/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements Journal on top of SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

var _ Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens the database at path, applies pending migrations
// and returns a ready journal. path may be ":memory:".
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema out of date: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to ":memory:" is its own database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

func (s *SQLiteJournal) StartRun(runID, operation, target string, dryRun bool, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (run_id, operation, target, dry_run, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, operation, target, dryRun, StatusRunning, startedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

func (s *SQLiteJournal) FinishRun(id int64, status string, counts Counts, failures []Failure, finishedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE runs
		 SET status = ?, succeeded = ?, unchanged = ?, skipped = ?, failed = ?, finished_at = ?
		 WHERE id = ?`,
		status, counts.Succeeded, counts.Unchanged, counts.Skipped, counts.Failed, finishedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating run %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d not found", id)
	}

	for _, f := range failures {
		if _, err := tx.Exec(
			`INSERT INTO run_failures (run_id, path, message) VALUES (?, ?, ?)`,
			id, f.Path, f.Message,
		); err != nil {
			return fmt.Errorf("inserting failure for run %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteJournal) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, operation, target, dry_run, status,
		        succeeded, unchanged, skipped, failed, started_at, finished_at
		 FROM runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Operation, &r.Target, &r.DryRun, &r.Status,
			&r.Counts.Succeeded, &r.Counts.Unchanged, &r.Counts.Skipped, &r.Counts.Failed,
			&r.StartedAt, &finished,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteJournal) Failures(id int64) ([]Failure, error) {
	rows, err := s.db.Query(
		`SELECT path, message FROM run_failures WHERE run_id = ? ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying failures for run %d: %w", id, err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Path, &f.Message); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}
