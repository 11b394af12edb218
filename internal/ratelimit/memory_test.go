package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock shared with the store.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_Increment_NewEntry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, 5*time.Minute, WithClock(clock.Now))
	defer store.Close()

	e, err := store.Increment(context.Background(), "client-a", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, e.Count)
	assert.Equal(t, clock.Now().Add(time.Minute), e.WindowResetTime)
	assert.Equal(t, clock.Now(), e.LastAccessTime)
}

func TestMemoryStore_Increment_SameWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, 5*time.Minute, WithClock(clock.Now))
	defer store.Close()

	ctx := context.Background()
	first, err := store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	second, err := store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, second.Count)
	assert.Equal(t, first.WindowResetTime, second.WindowResetTime, "reset time is fixed for the window")
	assert.Equal(t, clock.Now(), second.LastAccessTime)
}

func TestMemoryStore_Increment_ExactResetTimeStaysInWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, 5*time.Minute, WithClock(clock.Now))
	defer store.Close()

	ctx := context.Background()
	_, err := store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	e, err := store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Count)
}

func TestMemoryStore_Increment_WindowRollsOver(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, 5*time.Minute, WithClock(clock.Now))
	defer store.Close()

	ctx := context.Background()
	first, err := store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)
	_, err = store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Minute + time.Millisecond)
	next, err := store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, next.Count)
	assert.True(t, next.WindowResetTime.After(first.WindowResetTime), "reset time must increase across windows")
	assert.Equal(t, 1, store.Len(), "one entry per identifier")
}

func TestMemoryStore_Get(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	defer store.Close()

	ctx := context.Background()
	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = store.Increment(ctx, "client-a", time.Minute)
	require.NoError(t, err)

	e, found, err := store.Get(ctx, "client-a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, e.Count, "Get does not count a request")
}

func TestMemoryStore_Sweep(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, 5*time.Minute, WithClock(clock.Now))
	defer store.Close()

	ctx := context.Background()
	_, err := store.Increment(ctx, "stale", time.Minute)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, err = store.Increment(ctx, "recent", time.Minute)
	require.NoError(t, err)

	// stale: window over, idle 6m. recent: window over, idle 2m.
	clock.Advance(2 * time.Minute)
	removed, err := store.Sweep(ctx, 5*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	_, found, _ := store.Get(ctx, "stale")
	assert.False(t, found)
	_, found, _ = store.Get(ctx, "recent")
	assert.True(t, found)
}

func TestMemoryStore_Sweep_KeepsOpenWindows(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(0, 0, WithClock(clock.Now))
	defer store.Close()

	ctx := context.Background()
	_, err := store.Increment(ctx, "long-window", time.Hour)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	removed, err := store.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed, "entries inside their window are never swept")
}

func TestMemoryStore_BackgroundCleanup(t *testing.T) {
	store := NewMemoryStore(20*time.Millisecond, 0)
	defer store.Close()

	_, err := store.Increment(context.Background(), "ephemeral", 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond, "expired entry should be swept")
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	defer store.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("client-%d", id%5)
			for j := 0; j < 20; j++ {
				_, _ = store.Increment(ctx, key, time.Minute)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		e, found, err := store.Get(ctx, fmt.Sprintf("client-%d", i))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 200, e.Count, "no increments may be lost")
	}
}

func TestMemoryStore_Close(t *testing.T) {
	store := NewMemoryStore(10*time.Millisecond, time.Minute)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "double close is safe")

	_, err := store.Increment(context.Background(), "client-a", time.Minute)
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Ping(context.Background()), ErrStoreClosed)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Increment(ctx, "client-a", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}
