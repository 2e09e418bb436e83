package script

import (
	"fmt"
	"reflect"
	"time"
)

// maxNormalizeDepth caps recursion over foreign object graphs. Cycle
// detection on arbitrary runtime values is unreliable, so depth is the
// defense: anything deeper collapses to its string form.
const maxNormalizeDepth = 8

// Unboxer is implemented by transparent wrappers from embedded language
// runtimes that box an underlying native value.
type Unboxer interface {
	Unbox() any
}

// Normalize converts an arbitrary dynamic value graph into a JSON-safe
// tree of primitives, string-keyed maps, and lists.
//
// Script-backed probes return values whose shape is unknown until run
// time; without normalization, serializing a raw dynamic graph risks
// unbounded recursion, non-JSON-safe values, or wrapper leakage into the
// final report. Normalizing an already-normalized value is a no-op.
func Normalize(v any) any {
	return normalize(v, 0)
}

func normalize(v any, depth int) any {
	if v == nil {
		return nil
	}
	if depth > maxNormalizeDepth {
		return fmt.Sprint(v)
	}

	if u, ok := v.(Unboxer); ok {
		inner := u.Unbox()
		if inner == nil {
			return nil
		}
		// A wrapper yielding itself has no further structure.
		if sameValue(inner, v) {
			return fmt.Sprint(v)
		}
		return normalize(inner, depth+1)
	}

	switch t := v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, time.Duration,
		[]byte:
		return v
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "" {
				continue
			}
			out[k] = normalize(val, depth+1)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, el := range t {
			out = append(out, normalize(el, depth+1))
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface(), depth+1)
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := stringKey(iter.Key())
			if key == "" {
				continue
			}
			out[key] = normalize(iter.Value().Interface(), depth+1)
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, normalize(rv.Index(i).Interface(), depth+1))
		}
		return out
	}

	// Opaque plain values pass through; the serialization boundary handles
	// default field mapping.
	return v
}

// stringKey renders a map key as a string. Non-string keys from dynamic
// runtimes are stringified so the rebuilt map stays JSON-safe.
func stringKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// sameValue reports whether two interface values are the same reference.
// Falls back to false for values that cannot be compared.
func sameValue(a, b any) bool {
	defer func() { _ = recover() }()
	return a == b
}
