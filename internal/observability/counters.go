package observability

import (
	"context"
	"time"

	"lusogate/internal/ratelimit"
)

// InstrumentedStore wraps the rate limit counter store. Keys are not put on
// spans because they contain client identifiers.
type InstrumentedStore struct {
	inner ratelimit.Store
	inst  *operationInstruments
}

func NewInstrumentedStore(inner ratelimit.Store) (*InstrumentedStore, error) {
	inst, err := newOperationInstruments("ratelimit")
	if err != nil {
		return nil, err
	}
	return &InstrumentedStore{inner: inner, inst: inst}, nil
}

func (s *InstrumentedStore) Increment(ctx context.Context, key string, window time.Duration) (ratelimit.Entry, error) {
	ctx, span := s.inst.startSpan(ctx, "Increment")
	start := time.Now()
	entry, err := s.inner.Increment(ctx, key, window)
	s.inst.record(ctx, span, "Increment", start, err)
	return entry, err
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) (ratelimit.Entry, bool, error) {
	ctx, span := s.inst.startSpan(ctx, "Get")
	start := time.Now()
	entry, ok, err := s.inner.Get(ctx, key)
	s.inst.record(ctx, span, "Get", start, err)
	return entry, ok, err
}

func (s *InstrumentedStore) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	ctx, span := s.inst.startSpan(ctx, "Sweep")
	start := time.Now()
	n, err := s.inner.Sweep(ctx, idle)
	s.inst.record(ctx, span, "Sweep", start, err)
	return n, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	ctx, span := s.inst.startSpan(ctx, "Ping")
	start := time.Now()
	err := s.inner.Ping(ctx)
	s.inst.record(ctx, span, "Ping", start, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
