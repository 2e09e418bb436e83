package script

import "errors"

// Sentinel errors for script-backed probes.
var (
	// ErrUnknownLanguage indicates no engine is registered for a language.
	ErrUnknownLanguage = errors.New("script: unknown language")
)
