// Package attr wraps the flat string-attribute maps that make up a
// Snapshot's parts, nodes, edges and components, centralizing boolean and
// float parsing so callers do not repeat it. This mirrors how
// the design graph keeps a raw Properties map alongside typed accessors
// instead of scattering ad-hoc parsing across callers.
package attr

import "strconv"

// Map is a single entity's flat string-attribute set.
type Map map[string]string

// String returns the raw value, or def if the key is absent or empty.
func (m Map) String(key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}

// Bool parses key as a boolean, defaulting to false for anything other than
// the literal string "true".
func (m Map) Bool(key string) bool {
	return m[key] == "true"
}

// Float parses key as a float64, returning def if the key is absent or does
// not parse.
func (m Map) Float(key string, def float64) float64 {
	v, ok := m[key]
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Has reports whether key is present and non-empty.
func (m Map) Has(key string) bool {
	v, ok := m[key]
	return ok && v != ""
}
