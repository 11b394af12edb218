package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Increment(ctx context.Context, key string, window time.Duration) (Entry, error) {
	return Entry{}, f.err
}

func TestLimiter_CheckAndConsume_FirstRequest(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, time.Minute, WithClock(clock.Now))
	defer store.Close()
	limiter := NewLimiter(store)

	d, err := limiter.CheckAndConsume(context.Background(), "client-a", time.Minute, 10)
	require.NoError(t, err)

	assert.True(t, d.Allowed)
	assert.Equal(t, 10, d.Limit)
	assert.Equal(t, 9, d.Remaining)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetTime)
}

func TestLimiter_CheckAndConsume_BudgetExhausted(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, time.Minute, WithClock(clock.Now))
	defer store.Close()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		d, err := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 10)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 10-i, d.Remaining)
	}

	for i := 0; i < 3; i++ {
		d, err := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 10)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
	}
}

func TestLimiter_CheckAndConsume_NewWindowAfterReset(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, time.Minute, WithClock(clock.Now))
	defer store.Close()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 2)
		require.NoError(t, err)
	}

	clock.Advance(61 * time.Second)
	d, err := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 2)
	require.NoError(t, err)

	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestLimiter_CheckAndConsume_BoundaryBurst(t *testing.T) {
	// Fixed windows admit up to twice the budget around a boundary.
	clock := newFakeClock()
	store := NewMemoryStore(0, time.Minute, WithClock(clock.Now))
	defer store.Close()
	limiter := NewLimiter(store)
	ctx := context.Background()

	_, err := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 5)
	require.NoError(t, err)
	clock.Advance(59 * time.Second)

	allowed := 1
	for i := 0; i < 4; i++ {
		d, _ := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 5)
		if d.Allowed {
			allowed++
		}
	}
	clock.Advance(2 * time.Second)
	for i := 0; i < 5; i++ {
		d, _ := limiter.CheckAndConsume(ctx, "client-a", time.Minute, 5)
		if d.Allowed {
			allowed++
		}
	}

	assert.Equal(t, 10, allowed)
}

func TestLimiter_CheckAndConsume_IndependentIdentifiers(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	defer store.Close()
	limiter := NewLimiter(store)
	ctx := context.Background()

	_, _ = limiter.CheckAndConsume(ctx, "write:client-a", time.Minute, 1)
	d, _ := limiter.CheckAndConsume(ctx, "write:client-a", time.Minute, 1)
	assert.False(t, d.Allowed)

	d, err := limiter.CheckAndConsume(ctx, "write:client-b", time.Minute, 1)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiter_CheckAndConsume_InvalidArguments(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	defer store.Close()
	limiter := NewLimiter(store)
	ctx := context.Background()

	_, err := limiter.CheckAndConsume(ctx, "", time.Minute, 10)
	assert.Error(t, err)

	_, err = limiter.CheckAndConsume(ctx, "client-a", 0, 10)
	assert.Error(t, err)

	_, err = limiter.CheckAndConsume(ctx, "client-a", time.Minute, 0)
	assert.Error(t, err)
}

func TestLimiter_CheckAndConsume_StoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	limiter := NewLimiter(&failingStore{err: storeErr})

	_, err := limiter.CheckAndConsume(context.Background(), "client-a", time.Minute, 10)

	assert.ErrorIs(t, err, storeErr)
}

func TestLimiter_CheckAndConsume_Concurrent(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	defer store.Close()
	limiter := NewLimiter(store)
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				d, err := limiter.CheckAndConsume(ctx, "shared", time.Minute, 50)
				if err == nil && d.Allowed {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load(), "exactly the budget is admitted")
}

func TestDecision_RetryAfter(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		reset    time.Time
		expected time.Duration
	}{
		{name: "whole seconds", reset: now.Add(30 * time.Second), expected: 30 * time.Second},
		{name: "rounds up", reset: now.Add(29*time.Second + 100*time.Millisecond), expected: 30 * time.Second},
		{name: "minimum one second", reset: now.Add(200 * time.Millisecond), expected: time.Second},
		{name: "already passed", reset: now.Add(-time.Second), expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decision{ResetTime: tt.reset}.RetryAfter(now))
		})
	}
}
