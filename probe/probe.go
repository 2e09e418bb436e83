package probe

import "context"

// Probe is the contract for a named, tagged unit of health logic.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent invocations.
//   - Errors: Check returns a non-nil error only for context
//     cancellation/timeout or a failure the adapter could not handle.
//     Every recoverable domain failure (unreachable endpoint, bad exit
//     code, missing volume) is folded into the Result instead.
type Probe interface {
	// Name returns the probe's immutable, non-empty name.
	Name() string

	// Tags returns the probe's normalized tag set.
	Tags() []string

	// Check performs the health check.
	Check(ctx context.Context) (Result, error)
}

// Func adapts an in-process function to the Probe contract.
//
// It is the simplest adapter: the wrapped function's error return is folded
// into an unhealthy result by the runner, so caller code never needs to
// translate its own failures.
type Func struct {
	name string
	tags []string
	fn   func(context.Context) (Result, error)
}

// NewFunc creates a probe backed by fn.
func NewFunc(name string, tags []string, fn func(context.Context) (Result, error)) (*Func, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if fn == nil {
		return nil, ErrNilCheck
	}
	return &Func{name: name, tags: NormalizeTags(tags), fn: fn}, nil
}

// Name returns the probe name.
func (f *Func) Name() string {
	return f.name
}

// Tags returns the probe's tag set.
func (f *Func) Tags() []string {
	return f.tags
}

// Check invokes the wrapped function.
func (f *Func) Check(ctx context.Context) (Result, error) {
	return f.fn(ctx)
}
