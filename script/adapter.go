package script

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/probeops/healthprobe/probe"
)

// Config configures a script-backed probe.
type Config struct {
	// Name is the probe name.
	Name string

	// Tags select the probe for tag-filtered runs.
	Tags []string

	// Language names the embedded runtime the source is written in; it
	// must be registered with the Registry the probe is built against.
	Language string

	// Source is the check body's source text.
	Source string

	// Args are bound at registration time and handed to the body on every
	// invocation.
	Args []any

	// Snapshot, when set, supplies the state snapshot handed to the body
	// at each check. It is taken fresh per invocation.
	Snapshot func() map[string]any
}

// Probe bridges a compiled check body to the probe contract.
//
// Compilation is deferred to the first check so that a compile error
// surfaces as an unhealthy result rather than failing registration of the
// whole probe set.
type Probe struct {
	name     string
	tags     []string
	engine   Engine
	source   string
	args     []any
	snapshot func() map[string]any

	compileOnce sync.Once
	callable    Callable
	compileErr  error
}

// New creates a script-backed probe, resolving the engine for
// cfg.Language from the registry.
func New(registry *Registry, cfg Config) (*Probe, error) {
	if cfg.Name == "" {
		return nil, probe.ErrEmptyName
	}
	engine, err := registry.Lookup(cfg.Language)
	if err != nil {
		return nil, err
	}

	return &Probe{
		name:     cfg.Name,
		tags:     probe.NormalizeTags(cfg.Tags),
		engine:   engine,
		source:   cfg.Source,
		args:     cfg.Args,
		snapshot: cfg.Snapshot,
	}, nil
}

// Name returns the probe name.
func (p *Probe) Name() string {
	return p.name
}

// Tags returns the probe's tag set.
func (p *Probe) Tags() []string {
	return p.tags
}

// Check invokes the compiled body and decodes whatever it returns.
//
// Cooperative cancellation consistent with ctx propagates upward so the
// runner can tell caller cancellation from probe failure; every other
// failure is folded into an unhealthy result here.
func (p *Probe) Check(ctx context.Context) (probe.Result, error) {
	p.compileOnce.Do(func() {
		p.callable, p.compileErr = p.engine.Compile(ctx, p.source)
	})
	if p.compileErr != nil {
		return probe.Unhealthy("Exception: " + p.compileErr.Error()), nil
	}

	inv := Invocation{Args: p.args}
	if p.snapshot != nil {
		inv.State = p.snapshot()
	}

	out, err := p.callable(ctx, inv)
	if err != nil {
		if isCancellation(err) && ctx.Err() != nil {
			return probe.Result{}, err
		}
		return probe.Unhealthy("Exception: " + err.Error()), nil
	}

	return decode(out), nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// extractor attempts to read a dynamic return value as a result.
type extractor func(any) (probe.Result, bool)

// extractors is the ordered decode chain over a body's return value:
// already a result, a value with a status field, a bare status string.
// The chain fails closed.
var extractors = []extractor{
	asResult,
	fromStatusField,
	fromStatusString,
}

// decode turns a body's dynamic return value into a result.
func decode(v any) probe.Result {
	v = unbox(v)
	for _, extract := range extractors {
		if r, ok := extract(v); ok {
			return r
		}
	}
	return probe.Unhealthy("produced no recognizable result")
}

// unbox strips transparent runtime wrappers so extractors see the native
// value. Bounded by the same depth cap as Normalize.
func unbox(v any) any {
	for i := 0; i <= maxNormalizeDepth; i++ {
		u, ok := v.(Unboxer)
		if !ok {
			return v
		}
		inner := u.Unbox()
		if inner == nil || sameValue(inner, v) {
			return v
		}
		v = inner
	}
	return v
}

// asResult is the fast path for statically-typed bodies.
func asResult(v any) (probe.Result, bool) {
	switch t := v.(type) {
	case probe.Result:
		return t, true
	case *probe.Result:
		if t != nil {
			return *t, true
		}
	}
	return probe.Result{}, false
}

// fromStatusField decodes an associative value carrying a status field,
// with optional description and data fields.
func fromStatusField(v any) (probe.Result, bool) {
	fields, ok := stringMap(v)
	if !ok {
		return probe.Result{}, false
	}

	rawStatus, ok := fields["status"]
	if !ok || rawStatus == nil {
		return probe.Result{}, false
	}

	r := probe.Result{Status: probe.ParseStatus(statusToken(rawStatus))}

	if desc, ok := fields["description"]; ok && desc != nil {
		if s, ok := unbox(desc).(string); ok {
			r.Description = s
		}
	}

	if raw, ok := fields["data"]; ok {
		if data, ok := stringMap(raw); ok {
			normalized := make(map[string]any, len(data))
			for k, val := range data {
				nv := Normalize(val)
				if nv == nil {
					continue
				}
				normalized[k] = nv
			}
			if len(normalized) > 0 {
				r.Data = normalized
			}
		}
	}

	return r, true
}

// fromStatusString decodes a bare string as both status token and
// description.
func fromStatusString(v any) (probe.Result, bool) {
	s, ok := v.(string)
	if !ok {
		return probe.Result{}, false
	}
	return probe.Result{
		Status:      probe.ParseStatus(s),
		Description: s,
	}, true
}

// statusToken renders a dynamic status value as a token for ParseStatus.
func statusToken(v any) string {
	v = unbox(v)
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(probe.Status); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// stringMap views v as a string-keyed associative value.
func stringMap(v any) (map[string]any, bool) {
	v = unbox(v)
	if m, ok := v.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
