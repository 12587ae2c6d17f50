package main

// This file provides optional-path lookups over dynamically decoded JSON
// trees. The remote search payload has no stable shape, so handlers probe
// it key by key and fall back to defaults instead of failing.

// Lookup walks the given keys through nested map[string]any values and
// reports whether the full path exists.
func Lookup(data any, keys ...string) (any, bool) {
	current := data
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// LookupString returns the string at path or the provided default.
func LookupString(data any, def string, keys ...string) string {
	if v, ok := Lookup(data, keys...); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// LookupFloat returns the number at path or the provided default.
// encoding/json decodes every JSON number to float64.
func LookupFloat(data any, def float64, keys ...string) float64 {
	if v, ok := Lookup(data, keys...); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// LookupMap returns the object at path or an empty map.
func LookupMap(data any, keys ...string) map[string]any {
	if v, ok := Lookup(data, keys...); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// LookupSlice returns the array at path or nil.
func LookupSlice(data any, keys ...string) []any {
	if v, ok := Lookup(data, keys...); ok {
		if s, ok := v.([]any); ok {
			return s
		}
	}
	return nil
}

// LookupStrings returns the array at path filtered to its string items.
func LookupStrings(data any, keys ...string) []string {
	items := LookupSlice(data, keys...)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
