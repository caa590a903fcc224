package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"talktrack/internal/config"
)

// ErrNotFound indicates the requested run does not exist.
var ErrNotFound = errors.New("run not found")

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.CacheDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewRun inserts a pending run for a source video.
func (s *Store) NewRun(ctx context.Context, videoPath, stem, workdir string) (*Run, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            video_path, stem, workdir, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		videoPath,
		stem,
		workdir,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a run by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return run, nil
}

// List returns all runs, newest first.
func (s *Store) List(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM runs ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// SetStatus advances a run to a new lifecycle status.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return s.update(ctx, id, "UPDATE runs SET status = ?, updated_at = ? WHERE id = ?",
		status, now(), id)
}

// SetFailed marks a run failed with a terminal error message.
func (s *Store) SetFailed(ctx context.Context, id int64, message string) error {
	return s.update(ctx, id, "UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?",
		StatusFailed, message, now(), id)
}

// SetCompleted marks a run completed and records its output.
func (s *Store) SetCompleted(ctx context.Context, id int64, outputPath string, trackCount int) error {
	return s.update(ctx, id, "UPDATE runs SET status = ?, output_path = ?, track_count = ?, updated_at = ? WHERE id = ?",
		StatusCompleted, outputPath, trackCount, now(), id)
}

// SetTrackCount records how many face tracks the run produced.
func (s *Store) SetTrackCount(ctx context.Context, id int64, count int) error {
	return s.update(ctx, id, "UPDATE runs SET track_count = ?, updated_at = ? WHERE id = ?",
		count, now(), id)
}

func (s *Store) update(ctx context.Context, id int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update run %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

const selectColumns = `SELECT id, video_path, stem, workdir, status, error_message, track_count, output_path, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run          Run
		status       string
		errorMessage sql.NullString
		outputPath   sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(&run.ID, &run.VideoPath, &run.Stem, &run.Workdir, &status,
		&errorMessage, &run.TrackCount, &outputPath, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.ErrorMessage = errorMessage.String
	run.OutputPath = outputPath.String
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		run.UpdatedAt = ts
	}
	return &run, nil
}
