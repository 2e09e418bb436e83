// Package runner orchestrates probe execution: it fans a selected probe
// set out over goroutines, bounds parallelism with a counting admission
// gate, enforces per-probe timeouts, and folds the unordered results into
// one deterministic report.
//
// # Basic Usage
//
//	r := runner.New(runner.Config{Logger: obs.Logger(), Metrics: obs.Metrics(), Tracer: obs.Tracer()})
//	_ = r.Register(diskProbe)
//	_ = r.Register(apiProbe)
//
//	report, err := r.Run(ctx, runner.Options{
//	    TagFilter:      []string{"ready"},
//	    ProbeTimeout:   2 * time.Second,
//	    MaxConcurrency: 8,
//	})
//
// # Cancellation layers
//
// Three layers are distinguished. The caller's context cancels every
// in-flight probe and makes Run return an error instead of a partial
// report. The per-probe timeout cancels only that probe's derived context
// and dampens to a degraded entry ("Timed out after <seconds>s"). Adapters
// that hold an external resource, like the process probe, escalate their
// own timeout to a forced kill; that layer is local to the adapter.
//
// A probe that crashes (returned error or panic) becomes an unhealthy
// entry with the failure captured in the entry's error field, so a probe
// that reported unhealthy stays distinguishable from one that crashed.
//
// # HTTP boundary
//
// LivenessHandler, ReadinessHandler, and ReportHandler expose a runner
// over HTTP, with RequireBearer as an optional token guard:
//
//	http.Handle("/healthz", runner.LivenessHandler())
//	http.Handle("/readyz", runner.ReadinessHandler(r, cfg))
//	http.Handle("/health", runner.RequireBearer(runner.ReportHandler(r, cfg), bearerCfg))
package runner
