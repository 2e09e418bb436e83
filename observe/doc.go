// Package observe provides observability primitives for the probe engine.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. The runner consumes the Logger, Metrics, and
// Tracer it exposes; nothing here runs a probe.
package observe
