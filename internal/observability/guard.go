package observability

import (
	"context"
	"fmt"

	"lusogate/internal/guard"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GuardMetrics counts guarded requests by endpoint and outcome. It implements
// guard.Recorder.
type GuardMetrics struct {
	requests metric.Int64Counter
}

func NewGuardMetrics() (*GuardMetrics, error) {
	meter := otel.Meter(instrumentationName + "/guard")

	requests, err := meter.Int64Counter(
		"guard.requests",
		metric.WithDescription("Guarded requests by endpoint and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guard request counter: %w", err)
	}

	return &GuardMetrics{requests: requests}, nil
}

func (m *GuardMetrics) RecordOutcome(ctx context.Context, endpoint string, outcome guard.Outcome) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", string(outcome)),
	))
}

var _ guard.Recorder = (*GuardMetrics)(nil)
