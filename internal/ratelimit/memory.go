package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore keeps counters in a map guarded by a single mutex. A background
// goroutine sweeps expired, idle entries every cleanup interval so the map
// does not grow with every client ever seen.
type MemoryStore struct {
	cleanupInterval time.Duration
	idleTimeout     time.Duration
	now             func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
	done    chan struct{}
	closed  bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, for tests that need to cross window boundaries.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store and starts its sweeper. A non-positive
// cleanup interval disables the background sweep.
func NewMemoryStore(cleanupInterval, idleTimeout time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		cleanupInterval: cleanupInterval,
		idleTimeout:     idleTimeout,
		now:             time.Now,
		entries:         make(map[string]*Entry),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cleanupInterval > 0 {
		go s.cleanup()
	}
	return s
}

func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	e, exists := s.entries[key]
	if !exists || now.After(e.WindowResetTime) {
		e = &Entry{
			Count:           1,
			WindowResetTime: now.Add(window),
			LastAccessTime:  now,
		}
		s.entries[key] = e
		return *e, nil
	}

	e.Count++
	e.LastAccessTime = now
	return *e, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Entry{}, false, ErrStoreClosed
	}

	e, exists := s.entries[key]
	if !exists {
		return Entry{}, false, nil
	}
	return *e, true, nil
}

func (s *MemoryStore) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.After(e.WindowResetTime) && now.Sub(e.LastAccessTime) > idle {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Len reports the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweeper. Calling it more than once is safe.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			removed, err := s.Sweep(context.Background(), s.idleTimeout)
			if err != nil {
				slog.Warn("Rate limit sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Debug("Swept idle rate limit entries", "removed", removed)
			}
		}
	}
}
