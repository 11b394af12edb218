package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// operationInstruments records a span, a latency histogram and an error
// counter for each call of a wrapped backend.
type operationInstruments struct {
	component string
	tracer    trace.Tracer
	duration  metric.Float64Histogram
	errors    metric.Int64Counter
}

func newOperationInstruments(component string) (*operationInstruments, error) {
	meter := otel.Meter(instrumentationName + "/" + component)

	duration, err := meter.Float64Histogram(
		component+".operation.duration",
		metric.WithDescription("Duration of "+component+" operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s duration histogram: %w", component, err)
	}

	errCounter, err := meter.Int64Counter(
		component+".operation.errors",
		metric.WithDescription("Number of "+component+" operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s error counter: %w", component, err)
	}

	return &operationInstruments{
		component: component,
		tracer:    otel.Tracer(instrumentationName + "/" + component),
		duration:  duration,
		errors:    errCounter,
	}, nil
}

func (o *operationInstruments) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, o.component+"."+operation,
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String(o.component+".operation", operation),
		}, attrs...)...),
	)
}

func (o *operationInstruments) record(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	elapsed := time.Since(start).Seconds()
	attrs := metric.WithAttributes(attribute.String("operation", operation))

	o.duration.Record(ctx, elapsed, attrs)

	if err != nil {
		o.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
