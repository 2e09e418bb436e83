// Package render writes reports in the line-oriented text format consumed
// by monitoring and log tooling. The shape is load-bearing: one summary
// line, one line per probe, indented key=value lines for attached data.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/probeops/healthprobe/runner"
)

// WriteText renders the report to w.
func WriteText(w io.Writer, report *runner.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "status=%s total=%d healthy=%d degraded=%d unhealthy=%d\n",
		report.StatusText,
		report.Summary.Total,
		report.Summary.Healthy,
		report.Summary.Degraded,
		report.Summary.Unhealthy,
	)

	for _, entry := range report.Probes {
		fmt.Fprintf(&b, "name=%s status=%s duration=%s",
			entry.Name, entry.Status, entry.Duration)
		if entry.Description != "" {
			fmt.Fprintf(&b, " desc=%q", entry.Description)
		}
		if entry.Err != "" {
			fmt.Fprintf(&b, " error=%q", entry.Err)
		}
		b.WriteByte('\n')

		// Data keys are sorted so two identical reports render identically.
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s=%v\n", k, entry.Data[k])
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Text renders the report as a string.
func Text(report *runner.Report) string {
	var b strings.Builder
	_ = WriteText(&b, report)
	return b.String()
}
