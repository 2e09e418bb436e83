package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/probeops/healthprobe/probe"
)

// Metrics records probe execution telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one probe check with its duration and outcome.
	// A non-nil err marks the crash class, distinct from a probe that
	// reported unhealthy.
	RecordCheck(ctx context.Context, meta ProbeMeta, duration time.Duration, status probe.Status, err error)

	// RecordRun records a completed run's overall status and size.
	RecordRun(ctx context.Context, status probe.Status, total int, duration time.Duration)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	checkCount   metric.Int64Counter
	crashCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	runCount     metric.Int64Counter
	runHist      metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	checkCount, err := meter.Int64Counter(
		"probe.check.total",
		metric.WithDescription("Total number of probe checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	crashCount, err := meter.Int64Counter(
		"probe.check.crashes",
		metric.WithDescription("Total number of probe checks that crashed"),
		metric.WithUnit("{crash}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"probe.check.duration_ms",
		metric.WithDescription("Probe check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runCount, err := meter.Int64Counter(
		"probe.run.total",
		metric.WithDescription("Total number of probe runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runHist, err := meter.Float64Histogram(
		"probe.run.duration_ms",
		metric.WithDescription("Probe run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		checkCount:   checkCount,
		crashCount:   crashCount,
		durationHist: durationHist,
		runCount:     runCount,
		runHist:      runHist,
	}, nil
}

// RecordCheck records metrics for one probe check.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta ProbeMeta, duration time.Duration, status probe.Status, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.name", meta.Name),
		attribute.String("probe.status", status.String()),
	}

	opt := metric.WithAttributes(attrs...)

	// Always increment total counter
	m.checkCount.Add(ctx, 1, opt)

	// Increment crash counter when the check failed unexpectedly
	if err != nil {
		m.crashCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRun records metrics for one completed run.
func (m *metricsImpl) RecordRun(ctx context.Context, status probe.Status, total int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("run.status", status.String()),
		attribute.Int("run.total", total),
	)

	m.runCount.Add(ctx, 1, opt)
	m.runHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordCheck(ctx context.Context, meta ProbeMeta, duration time.Duration, status probe.Status, err error) {
}

func (m *noopMetrics) RecordRun(ctx context.Context, status probe.Status, total int, duration time.Duration) {
}
