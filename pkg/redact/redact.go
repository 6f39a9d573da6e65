// Package redact masks secret-bearing values in decoded JSON structures
// before they are written to logs or the audit trail.
package redact

// Marker replaces every masked value
const Marker = "[REDACTED]"

// DefaultKeys are the gateway tokens that must never be logged in clear
var DefaultKeys = []string{"merchantSessionKey", "cardIdentifier"}

// Transform returns a deep copy of v, calling fn for every map entry after its
// value has itself been transformed. Maps and slices produced by encoding/json
// (map[string]any, []any) are copied; every other value is returned as is.
func Transform(v any, fn func(key string, value any) any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = fn(k, Transform(val, fn))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Transform(val, fn)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Transform(val, fn)
		}
		return out
	default:
		return v
	}
}

// Mask returns a copy of v with the value of every key in keys replaced by
// Marker, regardless of nesting depth. DefaultKeys is used when keys is empty.
// Masking an already masked value is a no-op.
func Mask(v any, keys ...string) any {
	if len(keys) == 0 {
		keys = DefaultKeys
	}

	sensitive := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		sensitive[k] = struct{}{}
	}

	return Transform(v, func(key string, value any) any {
		if _, ok := sensitive[key]; ok {
			return Marker
		}
		return value
	})
}
