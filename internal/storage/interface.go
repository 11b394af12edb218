package storage

import (
	"context"
	"time"

	"lusogate/internal/models"
)

// List limits applied by ListSubmissions.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Storage persists submissions that passed the request guard. Implementations
// must be safe for concurrent use.
type Storage interface {
	// SaveSubmission stores a submission, replacing any submission with the same ID.
	SaveSubmission(ctx context.Context, s *models.Submission) error

	// GetSubmission returns the submission with the given ID, or ErrNotFound.
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)

	// ListSubmissions returns the most recent submissions first. An empty kind
	// lists every kind; a non-positive limit means DefaultListLimit.
	ListSubmissions(ctx context.Context, kind string, limit int) ([]*models.Submission, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the storage connection and cleans up resources
	Close() error
}

// Config holds configuration for storage backends
type Config struct {
	// Type specifies the storage backend type (json, memory, sqlite, postgres)
	Type string `json:"type" yaml:"type"`

	// Path is used for file-based storage backends
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ConnectionString is used for database backends
	ConnectionString string `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`

	// CacheTTL specifies how long the JSON backend trusts its in-memory copy
	CacheTTL string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`

	// Pool settings for database backends. Zero leaves the driver default.
	MaxOpenConns    int           `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time,omitempty" yaml:"conn_max_idle_time,omitempty"`
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
