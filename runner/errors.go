package runner

import "errors"

// Sentinel errors for the runner.
var (
	// ErrNilProbe indicates a nil probe was registered.
	ErrNilProbe = errors.New("runner: probe must not be nil")

	// ErrDuplicateProbe indicates a probe name was registered twice.
	ErrDuplicateProbe = errors.New("runner: probe already registered")
)
