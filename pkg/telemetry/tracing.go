package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/scheduler"
)

// Default tracer name for strand pipelines.
const defaultTracerName = "strand"

// TracerConfig configures the pipeline tracer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "strand").
	TracerName string

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracerOption configures the pipeline tracer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// Tracer wraps scheduler drains and tree-wide operations in OpenTelemetry
// spans. It implements scheduler.Observer and component.TreeObserver.
//
// The tracer resolves from the global OpenTelemetry tracer provider;
// configure the provider before creating the Tracer.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a pipeline tracer from the global provider.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	return &Tracer{tracer: otel.Tracer(config.TracerName)}
}

// UpdateScheduled implements scheduler.Observer. Scheduling carries no
// context, so no span is opened.
func (t *Tracer) UpdateScheduled(id uint64, priority scheduler.Priority) {}

// DrainStarted implements scheduler.Observer, opening the drain span.
func (t *Tracer) DrainStarted(ctx context.Context) context.Context {
	ctx, _ = t.tracer.Start(ctx, "scheduler.drain")
	return ctx
}

// UpdateProcessed implements scheduler.Observer.
func (t *Tracer) UpdateProcessed(id uint64, err error) {}

// DrainCompleted implements scheduler.Observer, closing the drain span.
func (t *Tracer) DrainCompleted(ctx context.Context, processed int, took time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("strand.drain.processed", processed),
		attribute.Int64("strand.drain.duration_us", took.Microseconds()),
	)
	span.End()
}

// OpStarted implements component.TreeObserver, opening a span per
// tree-wide operation.
func (t *Tracer) OpStarted(ctx context.Context, op string, id component.ID) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.Int64("strand.component.id", int64(id)),
	))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// PhaseChanged implements component.TreeObserver. Phase changes are
// counted by Metrics, not traced.
func (t *Tracer) PhaseChanged(id component.ID, phase component.Phase) {}
