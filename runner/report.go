package runner

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/probeops/healthprobe/probe"
)

// Entry is one probe's result folded with execution metadata.
type Entry struct {
	// Name is the probe name.
	Name string `json:"name"`

	// Tags is the probe's tag set.
	Tags []string `json:"tags,omitempty"`

	// Status is the reported status.
	Status probe.Status `json:"status"`

	// Description is the probe's optional description.
	Description string `json:"description,omitempty"`

	// Data is the probe's optional JSON-safe metadata.
	Data map[string]any `json:"data,omitempty"`

	// Duration is the check's elapsed wall-clock time.
	Duration time.Duration `json:"duration_ns"`

	// Err captures the failure when the check crashed, distinguishing
	// "probe reported unhealthy" from "probe crashed".
	Err string `json:"error,omitempty"`
}

// Summary contains aggregate counts for one run.
type Summary struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Degraded  int `json:"degraded"`
	Unhealthy int `json:"unhealthy"`
}

// Report is the final artifact of one run. It is immutable once built and
// handed to an external formatter unchanged.
type Report struct {
	// ID identifies this run.
	ID string `json:"id"`

	// Status is the overall status over all entries.
	Status probe.Status `json:"status"`

	// StatusText is the lowercase rendering of Status.
	StatusText string `json:"status_text"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Probes holds one entry per executed probe, sorted by name.
	Probes []Entry `json:"probes"`

	// Summary aggregates entry counts.
	Summary Summary `json:"summary"`

	// TagFilter is the normalized filter this run was selected with.
	TagFilter []string `json:"tag_filter,omitempty"`
}

// newReport assembles a report from unordered entries.
func newReport(entries []Entry, tagFilter []string) *Report {
	sortEntries(entries)

	status := overallStatus(entries)

	summary := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case probe.StatusHealthy:
			summary.Healthy++
		case probe.StatusDegraded:
			summary.Degraded++
		case probe.StatusUnhealthy:
			summary.Unhealthy++
		}
	}

	return &Report{
		ID:          uuid.NewString(),
		Status:      status,
		StatusText:  status.String(),
		GeneratedAt: time.Now().UTC(),
		Probes:      entries,
		Summary:     summary,
		TagFilter:   tagFilter,
	}
}

// sortEntries orders entries by name, case-insensitive ascending, so the
// report is deterministic regardless of completion order.
func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// overallStatus scans the entries once: the first unhealthy entry decides,
// otherwise any degraded entry degrades the whole report, otherwise (and
// for an empty run) the report is healthy. This scan is the authoritative
// definition of the three-level precedence.
func overallStatus(entries []Entry) probe.Status {
	degraded := false
	for _, e := range entries {
		if e.Status == probe.StatusUnhealthy {
			return probe.StatusUnhealthy
		}
		if e.Status == probe.StatusDegraded {
			degraded = true
		}
	}
	if degraded {
		return probe.StatusDegraded
	}
	return probe.StatusHealthy
}
