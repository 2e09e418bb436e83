// Package probe defines the health-probe contract and the built-in probe
// adapters.
//
// A Probe is a named, tagged unit of health logic exposing a single Check
// operation. The three-state Status (Healthy, Degraded, Unhealthy) carries
// a strict precedence: an unhealthy component outranks a degraded one,
// which outranks a healthy one.
//
// # Built-in adapters
//
// Each adapter wraps one failure domain and maps its domain-specific
// failure modes onto a Result rather than an error:
//
//	disk, err := probe.NewDiskProbe("rootfs", []string{"ready"}, probe.DiskConfig{
//	    Path:            "/",
//	    WarnPercent:     20,
//	    CriticalPercent: 5,
//	})
//
//	api, err := probe.NewHTTPProbe("billing-api", []string{"ready"}, probe.HTTPConfig{
//	    URL: "https://billing.internal/healthz",
//	})
//
//	backup, err := probe.NewProcessProbe("backup-agent", nil, probe.ProcessConfig{
//	    Command: "/usr/local/bin/backup-status",
//	})
//
// The direct callback adapter wraps caller code:
//
//	p, err := probe.NewFunc("queue-depth", []string{"live"}, func(ctx context.Context) (probe.Result, error) {
//	    if depth() > limit {
//	        return probe.Degraded("queue backlog"), nil
//	    }
//	    return probe.Healthy(""), nil
//	})
//
// # Status tokens
//
// ParseStatus resolves loose tokens ("ok", "warn", "fail") from external
// contracts and scripts; unrecognized tokens fail closed to Unhealthy.
package probe
