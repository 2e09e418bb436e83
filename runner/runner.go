package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/probeops/healthprobe/observe"
	"github.com/probeops/healthprobe/probe"
)

// Options configures a single run.
type Options struct {
	// TagFilter selects only probes whose tag set intersects it.
	// Empty selects every registered probe.
	TagFilter []string

	// ProbeTimeout bounds each probe's check independently.
	// Zero disables the per-probe timeout.
	ProbeTimeout time.Duration

	// MaxConcurrency bounds how many checks run at once.
	// Values <= 0 disable bounding.
	MaxConcurrency int
}

// Config configures the runner's collaborators.
type Config struct {
	Logger  observe.Logger
	Metrics observe.Metrics
	Tracer  observe.Tracer
}

// Runner executes a set of probes in parallel and aggregates their results
// into a single report.
type Runner struct {
	config Config

	mu     sync.RWMutex
	probes []probe.Probe
	names  map[string]struct{}
}

// New creates a runner. Collaborators left unset default to no-ops.
func New(config ...Config) *Runner {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observe.NopTracer()
	}

	return &Runner{
		config: cfg,
		names:  make(map[string]struct{}),
	}
}

// Register adds a probe. Names are unique case-insensitively.
func (r *Runner) Register(p probe.Probe) error {
	if p == nil {
		return ErrNilProbe
	}
	if p.Name() == "" {
		return probe.ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(p.Name())
	if _, exists := r.names[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProbe, p.Name())
	}
	r.names[key] = struct{}{}
	r.probes = append(r.probes, p)
	return nil
}

// ProbeNames returns the names of all registered probes.
func (r *Runner) ProbeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.probes))
	for _, p := range r.probes {
		names = append(names, p.Name())
	}
	return names
}

// Run executes the selected probes in parallel and returns the report.
//
// The only non-report outcome is caller cancellation: when ctx is canceled
// every in-flight probe is canceled and Run returns ctx's error instead of
// a partial report. Per-probe timeouts and probe crashes never escape;
// they are folded into entries.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter := probe.NormalizeTags(opts.TagFilter)
	selected := r.selectProbes(filter)
	if len(selected) == 0 {
		return newReport(nil, filter), nil
	}

	start := time.Now()
	runCtx, runSpan := r.config.Tracer.StartRun(ctx, len(selected))

	g := newGate(opts.MaxConcurrency)
	entries := make([]Entry, len(selected))

	var wg sync.WaitGroup
	for i, p := range selected {
		wg.Add(1)
		go func(i int, p probe.Probe) {
			defer wg.Done()
			entries[i] = r.runProbe(runCtx, p, opts.ProbeTimeout, g)
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.config.Tracer.EndSpan(runSpan, err)
		return nil, err
	}

	report := newReport(entries, filter)
	elapsed := time.Since(start)

	r.config.Tracer.EndSpan(runSpan, nil)
	r.config.Metrics.RecordRun(ctx, report.Status, report.Summary.Total, elapsed)

	fields := []observe.Field{
		{Key: "status", Value: report.StatusText},
		{Key: "total", Value: report.Summary.Total},
		{Key: "duration_ms", Value: float64(elapsed.Milliseconds())},
	}
	if stats := g.stats(); stats.Limit > 0 {
		fields = append(fields, observe.Field{Key: "gate_max_active", Value: stats.MaxActive})
	}
	r.config.Logger.Info(ctx, "probe run complete", fields...)

	return report, nil
}

// selectProbes snapshots the probes matching the normalized filter.
func (r *Runner) selectProbes(filter []string) []probe.Probe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(filter) == 0 {
		return slices.Clone(r.probes)
	}

	var out []probe.Probe
	for _, p := range r.probes {
		if probe.HasAnyTag(p.Tags(), filter) {
			out = append(out, p)
		}
	}
	return out
}

// runProbe executes a single probe's check behind the admission gate and
// folds the outcome into an entry.
func (r *Runner) runProbe(ctx context.Context, p probe.Probe, timeout time.Duration, g *gate) Entry {
	entry := Entry{Name: p.Name(), Tags: p.Tags()}
	meta := observe.ProbeMeta{Name: p.Name(), Tags: p.Tags()}

	if err := g.acquire(ctx); err != nil {
		// Caller canceled while waiting for a slot; the run aborts and
		// this entry is discarded.
		return entry
	}
	defer g.release()

	probeCtx := ctx
	cancel := func() {}
	if timeout > 0 {
		probeCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	checkCtx, span := r.config.Tracer.StartSpan(probeCtx, meta)
	start := time.Now()

	type outcome struct {
		result probe.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		result, err := p.Check(checkCtx)
		done <- outcome{result: result, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-probeCtx.Done():
		// Which token fired decides the outcome class: the caller's token
		// aborts the whole run, the derived timer degrades this probe only.
		if ctx.Err() != nil {
			r.config.Tracer.EndSpan(span, ctx.Err())
			return entry
		}
		out = outcome{result: probe.Degraded(timedOutDescription(timeout))}
	}
	elapsed := time.Since(start)

	result := out.result
	var crashErr error
	if out.err != nil {
		switch {
		case ctx.Err() != nil:
			r.config.Tracer.EndSpan(span, ctx.Err())
			return entry
		case probeCtx.Err() != nil && isCancellation(out.err):
			// Cooperative per-probe timeout. Transient slowness under load
			// is common; it dampens to degraded, not unhealthy.
			result = probe.Degraded(timedOutDescription(timeout))
		default:
			r.config.Logger.WithProbe(meta).Error(ctx, "probe check failed",
				observe.Field{Key: "error", Value: out.err.Error()})
			crashErr = out.err
			result = probe.Unhealthy("Exception: " + out.err.Error())
			entry.Err = out.err.Error()
		}
	}

	entry.Status = result.Status
	entry.Description = result.Description
	entry.Data = result.Data
	entry.Duration = elapsed

	r.config.Tracer.EndSpan(span, crashErr)
	r.config.Metrics.RecordCheck(ctx, meta, elapsed, result.Status, crashErr)
	return entry
}

func timedOutDescription(timeout time.Duration) string {
	return fmt.Sprintf("Timed out after %gs", timeout.Seconds())
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
