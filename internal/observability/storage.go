package observability

import (
	"context"
	"errors"
	"time"

	"lusogate/internal/models"
	"lusogate/internal/storage"

	"go.opentelemetry.io/otel/attribute"
)

// InstrumentedStorage wraps a storage.Storage implementation with
// OpenTelemetry tracing and metrics instrumentation.
type InstrumentedStorage struct {
	inner storage.Storage
	inst  *operationInstruments
}

// NewInstrumentedStorage creates a new storage wrapper that records trace spans,
// operation latency histograms, and error counters for every storage method call.
// A missing submission is not counted as an error.
func NewInstrumentedStorage(inner storage.Storage) (*InstrumentedStorage, error) {
	inst, err := newOperationInstruments("storage")
	if err != nil {
		return nil, err
	}
	return &InstrumentedStorage{inner: inner, inst: inst}, nil
}

func (s *InstrumentedStorage) SaveSubmission(ctx context.Context, sub *models.Submission) error {
	ctx, span := s.inst.startSpan(ctx, "SaveSubmission",
		attribute.String("submission.id", sub.ID),
		attribute.String("submission.kind", sub.Kind),
	)
	start := time.Now()
	err := s.inner.SaveSubmission(ctx, sub)
	s.inst.record(ctx, span, "SaveSubmission", start, err)
	return err
}

func (s *InstrumentedStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	ctx, span := s.inst.startSpan(ctx, "GetSubmission", attribute.String("submission.id", id))
	start := time.Now()
	result, err := s.inner.GetSubmission(ctx, id)
	recorded := err
	if errors.Is(err, storage.ErrNotFound) {
		recorded = nil
	}
	s.inst.record(ctx, span, "GetSubmission", start, recorded)
	return result, err
}

func (s *InstrumentedStorage) ListSubmissions(ctx context.Context, kind string, limit int) ([]*models.Submission, error) {
	ctx, span := s.inst.startSpan(ctx, "ListSubmissions",
		attribute.String("submission.kind", kind),
		attribute.Int("limit", limit),
	)
	start := time.Now()
	result, err := s.inner.ListSubmissions(ctx, kind, limit)
	s.inst.record(ctx, span, "ListSubmissions", start, err)
	return result, err
}

func (s *InstrumentedStorage) Ping(ctx context.Context) error {
	ctx, span := s.inst.startSpan(ctx, "Ping")
	start := time.Now()
	err := s.inner.Ping(ctx)
	s.inst.record(ctx, span, "Ping", start, err)
	return err
}

func (s *InstrumentedStorage) Close() error {
	return s.inner.Close()
}
