package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lottie2video/internal/job"
)

// Status is the terminal state of a recorded job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one recorded job outcome.
type Entry struct {
	ID           int64
	BatchID      string
	InputPath    string
	Format       string
	OutputPath   string
	WorkDir      string
	Status       Status
	ErrorMessage string
	Elapsed      time.Duration
	CreatedAt    time.Time
}

// Store persists job outcomes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the history database at path and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
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

// Record stores the outcome of one job.
func (s *Store) Record(ctx context.Context, batchID string, result job.Result) (int64, error) {
	status := StatusSucceeded
	var errMsg any
	if result.Err != nil {
		status = StatusFailed
		errMsg = result.Err.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (
            batch_id, input_path, format, output_path, work_dir,
            status, error_message, elapsed_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID,
		result.InputPath,
		string(result.Format),
		result.OutputPath,
		nullableString(result.WorkDir),
		string(status),
		errMsg,
		result.Elapsed.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, input_path, format, output_path, work_dir,
                status, error_message, elapsed_ms, created_at
           FROM jobs
          ORDER BY id DESC
          LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			workDir   sql.NullString
			errMsg    sql.NullString
			status    string
			elapsedMS int64
			created   string
		)
		if err := rows.Scan(&entry.ID, &entry.BatchID, &entry.InputPath, &entry.Format, &entry.OutputPath,
			&workDir, &status, &errMsg, &elapsedMS, &created); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.WorkDir = workDir.String
		entry.ErrorMessage = errMsg.String
		entry.Status = Status(status)
		entry.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
