package probe

import "strings"

// Status represents the health status reported by a probe.
type Status int

const (
	// StatusHealthy indicates the probed component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so statuses serialize as
// their lowercase names rather than ordinals.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the same loose
// token resolution as ParseStatus.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// statusSynonyms maps loose status tokens emitted by scripts and external
// contracts onto canonical statuses.
var statusSynonyms = map[string]Status{
	"ok":      StatusHealthy,
	"warn":    StatusDegraded,
	"warning": StatusDegraded,
	"fail":    StatusUnhealthy,
	"failed":  StatusUnhealthy,
}

// ParseStatus resolves a loosely-typed status token to a Status.
//
// The canonical names are matched first (case-insensitively), then a small
// synonym table. Anything else resolves to StatusUnhealthy: an unrecognized
// status is a hard failure signal, never silently healthy.
func ParseStatus(token string) Status {
	t := strings.ToLower(strings.TrimSpace(token))

	switch t {
	case "healthy":
		return StatusHealthy
	case "degraded":
		return StatusDegraded
	case "unhealthy":
		return StatusUnhealthy
	}

	if s, ok := statusSynonyms[t]; ok {
		return s
	}
	return StatusUnhealthy
}
