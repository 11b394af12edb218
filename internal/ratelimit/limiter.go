// Package ratelimit provides fixed-window request counting per client.
//
// Each identifier owns one counter per window. The first request opens a
// window lasting the configured duration; every request inside it increments
// the counter, and the request that pushes the counter past the budget is
// denied. Counters live behind the Store interface so several instances can
// share them through Redis instead of process memory.
//
// Fixed windows allow up to twice the budget across a window boundary.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStoreClosed is returned by stores used after Close.
var ErrStoreClosed = errors.New("rate limit store is closed")

// Entry is the counter state for one identifier.
type Entry struct {
	Count           int
	WindowResetTime time.Time
	LastAccessTime  time.Time
}

// Store holds the counters. Implementations must be safe for concurrent use,
// and Increment must be atomic per key.
type Store interface {
	// Increment records one request for key. When key has no entry, or its
	// window ended before now, a new window of the given length starts with
	// Count 1. The updated entry is returned.
	Increment(ctx context.Context, key string, window time.Duration) (Entry, error)

	// Get reads the entry for key without counting a request.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Sweep deletes entries whose window has ended and that have not been
	// touched for longer than idle. It returns how many were removed.
	Sweep(ctx context.Context, idle time.Duration) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// Decision is the outcome of one rate check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// RetryAfter is the wait until the window resets, rounded up to whole
// seconds and never below one second.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetTime.Sub(now)
	if wait < time.Second {
		return time.Second
	}
	return wait.Truncate(time.Second) + roundUp(wait%time.Second)
}

func roundUp(frac time.Duration) time.Duration {
	if frac > 0 {
		return time.Second
	}
	return 0
}

// Limiter applies fixed-window budgets on top of a Store.
type Limiter struct {
	store Store
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// CheckAndConsume counts a request for identifier and reports whether it fits
// in a budget of max requests per window. The (max+1)-th request of a window
// and every later one are denied with Remaining 0.
func (l *Limiter) CheckAndConsume(ctx context.Context, identifier string, window time.Duration, max int) (Decision, error) {
	if identifier == "" {
		return Decision{}, errors.New("identifier is required")
	}
	if window <= 0 || max <= 0 {
		return Decision{}, fmt.Errorf("invalid budget: %d requests per %s", max, window)
	}

	entry, err := l.store.Increment(ctx, identifier, window)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	remaining := max - entry.Count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   entry.Count <= max,
		Limit:     max,
		Remaining: remaining,
		ResetTime: entry.WindowResetTime,
	}, nil
}

// Store exposes the backing store for health checks.
func (l *Limiter) Store() Store {
	return l.store
}
