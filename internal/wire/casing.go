// Package wire converts JSON key casing between the application's camelCase
// view-model convention and the backend's snake_case wire convention.
//
// The transform is purely structural: it walks decoded JSON trees (maps,
// slices, scalars), rewrites map keys at every depth, and leaves every value
// untouched. It performs no type coercion and no renaming beyond the casing
// rule, and over ASCII letters and underscores the two directions are
// inverses of each other.
package wire

import "strings"

// ToSnakeKeys rewrites every map key in the tree from camelCase to
// snake_case, recursing through nested maps and slice elements. Scalars are
// returned unchanged.
func ToSnakeKeys(v any) any {
	return transformKeys(v, SnakeKey)
}

// ToCamelKeys rewrites every map key in the tree from snake_case to
// camelCase, recursing through nested maps and slice elements. Scalars are
// returned unchanged.
func ToCamelKeys(v any) any {
	return transformKeys(v, CamelKey)
}

func transformKeys(v any, keyFn func(string) string) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for key, val := range node {
			out[keyFn(key)] = transformKeys(val, keyFn)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, elem := range node {
			out[i] = transformKeys(elem, keyFn)
		}
		return out
	default:
		return v
	}
}

// SnakeKey replaces each ASCII uppercase letter with an underscore followed
// by its lowercase form: "zipCode" becomes "zip_code".
func SnakeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// CamelKey replaces each underscore followed by an ASCII lowercase letter
// with the uppercase form of that letter: "zip_code" becomes "zipCode".
// Underscores not followed by a lowercase letter are kept as-is.
func CamelKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && i+1 < len(s) {
			next := s[i+1]
			if next >= 'a' && next <= 'z' {
				b.WriteByte(next - ('a' - 'A'))
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
