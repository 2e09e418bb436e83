package probe

import "errors"

// Sentinel errors for probe construction.
var (
	// ErrEmptyName indicates a probe was constructed without a name.
	ErrEmptyName = errors.New("probe: name must not be empty")

	// ErrNilCheck indicates a probe was constructed without a check function.
	ErrNilCheck = errors.New("probe: check function must not be nil")

	// ErrBadThresholds indicates disk thresholds violate 0 < critical < warn <= 100.
	ErrBadThresholds = errors.New("probe: thresholds must satisfy 0 < critical < warn <= 100")

	// ErrEmptyURL indicates an HTTP probe was constructed without a URL.
	ErrEmptyURL = errors.New("probe: url must not be empty")

	// ErrEmptyCommand indicates a process probe was constructed without a command.
	ErrEmptyCommand = errors.New("probe: command must not be empty")
)
