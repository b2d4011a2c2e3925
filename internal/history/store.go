package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports a lookup for a run that is not in the ledger.
var ErrNotFound = errors.New("run not found")

var runColumns = []string{
	"id", "started_at", "finished_at", "input_dir", "output_file", "reference_file",
	"threshold", "status", "files_seen", "files_skipped", "rows_read", "rows_kept", "error",
}

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var fileColumns = []string{"run_id", "position", "file", "status", "reason", "rows_read", "rows_kept"}

// Store manages the run ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a run and its file outcomes atomically.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.Insert("runs").Columns(runColumns...).Values(
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.InputDir,
		run.OutputFile,
		run.ReferenceFile,
		run.Threshold,
		string(run.Status),
		run.FilesSeen,
		run.FilesSkipped,
		run.RowsRead,
		run.RowsKept,
		nullableString(run.Error),
	).ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Files) > 0 {
		insert := sq.Insert("run_files").Columns(fileColumns...)
		for _, f := range run.Files {
			insert = insert.Values(run.ID, f.Position, f.File, string(f.Status), nullableString(f.Reason), f.RowsRead, f.RowsKept)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build file insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert run files: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. Files are not loaded.
// A non-positive limit returns every run.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	builder := sq.Select(runColumns...).From("runs").OrderBy("started_at DESC", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its file outcomes in position order.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	query, args, err := sq.Select(runColumns...).From("runs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Run{}, fmt.Errorf("build run query: %w", err)
	}
	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	query, args, err = sq.Select(fileColumns[1:]...).From("run_files").
		Where(sq.Eq{"run_id": id}).OrderBy("position").ToSql()
	if err != nil {
		return Run{}, fmt.Errorf("build files query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Run{}, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			f      File
			status string
			reason sql.NullString
		)
		if err := rows.Scan(&f.Position, &f.File, &status, &reason, &f.RowsRead, &f.RowsKept); err != nil {
			return Run{}, fmt.Errorf("scan run file: %w", err)
		}
		f.Status = FileStatus(status)
		f.Reason = reason.String
		run.Files = append(run.Files, f)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate run files: %w", err)
	}
	return run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		started, finished string
		status            string
		errText           sql.NullString
	)
	err := row.Scan(
		&run.ID, &started, &finished, &run.InputDir, &run.OutputFile, &run.ReferenceFile,
		&run.Threshold, &status, &run.FilesSeen, &run.FilesSkipped, &run.RowsRead, &run.RowsKept, &errText,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.Status = Status(status)
	run.Error = errText.String
	return run, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
