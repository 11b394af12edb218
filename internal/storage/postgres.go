package storage

import (
	"context"
	"errors"
	"fmt"

	"lusogate/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	client_id  TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_kind_created ON submissions (kind, created_at DESC);
`

const selectSubmission = `SELECT id, kind, client_id, payload, created_at FROM submissions`

// PostgresStorage implements the Storage interface using PostgreSQL through a
// pgx connection pool. Payloads are stored as JSONB, so key order and spacing
// of a read payload may differ from what was saved.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a new PostgreSQL storage instance.
func NewPostgresStorage(config Config) (*PostgresStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL storage")
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if config.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(min(config.MaxIdleConns, int(poolConfig.MaxConns)))
	}
	if config.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = config.ConnMaxLifetime
	}
	if config.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = config.ConnMaxIdleTime
	}

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// SaveSubmission stores or replaces a submission (upsert).
func (ps *PostgresStorage) SaveSubmission(ctx context.Context, s *models.Submission) error {
	stored, err := prepare(s)
	if err != nil {
		return err
	}

	_, err = ps.pool.Exec(ctx,
		`INSERT INTO submissions (id, kind, client_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   kind = EXCLUDED.kind,
		   client_id = EXCLUDED.client_id,
		   payload = EXCLUDED.payload,
		   created_at = EXCLUDED.created_at`,
		stored.ID, stored.Kind, stored.ClientID, string(stored.Payload), stored.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by its ID.
func (ps *PostgresStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	rows, err := ps.pool.Query(ctx, selectSubmission+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanPgSubmission)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// ListSubmissions returns the newest submissions, optionally of one kind.
func (ps *PostgresStorage) ListSubmissions(ctx context.Context, kind string, limit int) ([]*models.Submission, error) {
	rows, err := ps.pool.Query(ctx,
		selectSubmission+`
		 WHERE ($1::text = '' OR kind = $1)
		 ORDER BY created_at DESC, id ASC
		 LIMIT $2`, kind, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	list, err := pgx.CollectRows(rows, scanPgSubmission)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if list == nil {
		list = []*models.Submission{}
	}
	return list, nil
}

func (ps *PostgresStorage) Ping(ctx context.Context) error {
	return ps.pool.Ping(ctx)
}

// Close closes the connection pool.
func (ps *PostgresStorage) Close() error {
	ps.pool.Close()
	return nil
}

func scanPgSubmission(row pgx.CollectableRow) (*models.Submission, error) {
	var (
		s       models.Submission
		payload []byte
	)
	if err := row.Scan(&s.ID, &s.Kind, &s.ClientID, &payload, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Payload = payload
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}
