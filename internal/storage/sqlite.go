package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lusogate/internal/models"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		client_id  TEXT NOT NULL,
		payload    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_kind_created ON submissions (kind, created_at DESC)`,
}

// SQLiteStorage implements the Storage interface on a SQLite database file.
// Timestamps are stored as Unix nanoseconds.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the database and creates the submissions table if needed
func NewSQLiteStorage(config Config) (*SQLiteStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for SQLite storage")
	}

	db, err := sql.Open("sqlite", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids SQLITE_BUSY.
	maxOpen := config.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
	if config.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteStorage{db: db}, nil
}

// SaveSubmission stores or replaces a submission
func (ss *SQLiteStorage) SaveSubmission(ctx context.Context, s *models.Submission) error {
	stored, err := prepare(s)
	if err != nil {
		return err
	}

	_, err = ss.db.ExecContext(ctx,
		`INSERT INTO submissions (id, kind, client_id, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   kind = excluded.kind,
		   client_id = excluded.client_id,
		   payload = excluded.payload,
		   created_at = excluded.created_at`,
		stored.ID, stored.Kind, stored.ClientID, string(stored.Payload), toUnixNano(stored.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by its ID
func (ss *SQLiteStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	row := ss.db.QueryRowContext(ctx,
		`SELECT id, kind, client_id, payload, created_at FROM submissions WHERE id = ?`, id)

	s, err := scanSQLiteSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// ListSubmissions returns the newest submissions, optionally of one kind
func (ss *SQLiteStorage) ListSubmissions(ctx context.Context, kind string, limit int) ([]*models.Submission, error) {
	rows, err := ss.db.QueryContext(ctx,
		`SELECT id, kind, client_id, payload, created_at FROM submissions
		 WHERE (? = '' OR kind = ?)
		 ORDER BY created_at DESC, id ASC
		 LIMIT ?`, kind, kind, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	list := []*models.Submission{}
	for rows.Next() {
		s, err := scanSQLiteSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return list, nil
}

func (ss *SQLiteStorage) Ping(ctx context.Context) error {
	return ss.db.PingContext(ctx)
}

// Close closes the storage connection
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSubmission(row rowScanner) (*models.Submission, error) {
	var (
		s       models.Submission
		payload string
		created int64
	)
	if err := row.Scan(&s.ID, &s.Kind, &s.ClientID, &payload, &created); err != nil {
		return nil, err
	}
	s.Payload = []byte(payload)
	s.CreatedAt = fromUnixNano(created)
	return &s, nil
}
