package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ProbeMeta contains metadata about a probe for telemetry purposes.
type ProbeMeta struct {
	Name string   // Probe name (required)
	Tags []string // Probe tags (optional)
}

// SpanName returns the deterministic span name for this probe.
// Format: probe.check.<name>
func (m ProbeMeta) SpanName() string {
	return "probe.check." + m.Name
}

// Tracer wraps OpenTelemetry tracing with probe-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartRun starts the span covering a whole probe run.
	StartRun(ctx context.Context, total int) (context.Context, trace.Span)

	// StartSpan starts a new span for one probe check.
	StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartRun starts the run-level span.
func (t *tracerImpl) StartRun(ctx context.Context, total int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "probe.run",
		trace.WithAttributes(attribute.Int("run.selected", total)),
	)
}

// StartSpan starts a new span with probe metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.name", meta.Name),
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("probe.tags", meta.Tags))
	}

	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(attrs...))
}

// EndSpan ends the span, recording any error.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NopTracer returns a Tracer whose spans are discarded.
func NopTracer() Tracer {
	return newTracer(tracenoop.NewTracerProvider().Tracer("noop"))
}
