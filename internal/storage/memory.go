package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"lusogate/internal/models"
)

// MemoryStorage implements the Storage interface using in-memory data structures.
// This provider is ideal for development, testing, and scenarios where data
// persistence is not required. It provides fast access but data is lost on restart.
type MemoryStorage struct {
	mu          sync.RWMutex
	submissions map[string]*models.Submission
}

// NewMemoryStorage creates a new memory-based storage instance
func NewMemoryStorage(config Config) (*MemoryStorage, error) {
	return &MemoryStorage{
		submissions: make(map[string]*models.Submission),
	}, nil
}

// SaveSubmission stores or replaces a submission
func (m *MemoryStorage) SaveSubmission(ctx context.Context, s *models.Submission) error {
	stored, err := prepare(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions[stored.ID] = stored
	return nil
}

// GetSubmission retrieves a submission by its ID
func (m *MemoryStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.submissions[id]
	if !exists {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}

	// Return a copy
	return copySubmission(s), nil
}

// ListSubmissions returns the newest submissions, optionally of one kind
func (m *MemoryStorage) ListSubmissions(ctx context.Context, kind string, limit int) ([]*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*models.Submission, 0, len(m.submissions))
	for _, s := range m.submissions {
		if kind != "" && s.Kind != kind {
			continue
		}
		list = append(list, copySubmission(s))
	}

	slices.SortFunc(list, newerFirst)
	if n := clampLimit(limit); len(list) > n {
		list = list[:n]
	}
	return list, nil
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close releases the stored submissions
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions = make(map[string]*models.Submission)
	return nil
}
