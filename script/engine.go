package script

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Callable is a compiled check body. The engine that produced it is
// opaque to this package: all that matters is that it can be invoked with
// a context and an invocation snapshot and yields a dynamic value.
type Callable func(ctx context.Context, inv Invocation) (any, error)

// Invocation carries the state handed to a compiled body at check time.
// Passing it explicitly keeps script-backed probes testable in isolation:
// there is no ambient global a body can reach for.
type Invocation struct {
	// Args are the arguments bound at probe registration time.
	Args []any

	// State is a snapshot of shared state taken just before the call.
	State map[string]any
}

// Engine compiles source text in one embedded language into a Callable.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: Compile returns an error for invalid source; it must not
//     panic. Errors surfaced lazily at first invocation are the
//     callable's to return.
type Engine interface {
	// Language returns the engine's language name.
	Language() string

	// Compile turns source text into a callable check body.
	Compile(ctx context.Context, source string) (Callable, error)
}

// EngineFunc adapts an ordinary compile function to the Engine interface.
type EngineFunc struct {
	language string
	compile  func(ctx context.Context, source string) (Callable, error)
}

// NewEngineFunc creates an EngineFunc.
func NewEngineFunc(language string, compile func(ctx context.Context, source string) (Callable, error)) *EngineFunc {
	return &EngineFunc{language: language, compile: compile}
}

// Language returns the engine's language name.
func (e *EngineFunc) Language() string {
	return e.language
}

// Compile invokes the wrapped compile function.
func (e *EngineFunc) Compile(ctx context.Context, source string) (Callable, error) {
	return e.compile(ctx, source)
}

// Registry holds the available script engines, keyed by language name
// (case-insensitive).
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds an engine. A later registration for the same language
// replaces the earlier one.
func (r *Registry) Register(engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[strings.ToLower(engine.Language())] = engine
}

// Lookup returns the engine for a language.
func (r *Registry) Lookup(language string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	return engine, nil
}

// Languages returns the registered language names.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	return names
}
