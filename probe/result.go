package probe

// Result contains the outcome of a single check invocation.
//
// A Result carries only what the probe itself reported; execution metadata
// (elapsed time, captured errors) is folded in by the runner.
type Result struct {
	// Status is the reported health status.
	Status Status

	// Description provides optional context about the status.
	Description string

	// Data contains optional JSON-safe metadata about the check.
	Data map[string]any
}

// Healthy creates a healthy result.
func Healthy(description string) Result {
	return Result{Status: StatusHealthy, Description: description}
}

// Degraded creates a degraded result.
func Degraded(description string) Result {
	return Result{Status: StatusDegraded, Description: description}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(description string) Result {
	return Result{Status: StatusUnhealthy, Description: description}
}

// WithData attaches data to a result.
func (r Result) WithData(data map[string]any) Result {
	r.Data = data
	return r
}
