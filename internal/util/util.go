package util

import "strings"

// FirstNonEmpty returns the first value that is not blank, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// CloneAnyMap returns a shallow copy of input. Nested maps are copied too so
// callers can hand the result to code that may write into it.
func CloneAnyMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		if nested, ok := value.(map[string]any); ok {
			value = CloneAnyMap(nested)
		}
		out[key] = value
	}
	return out
}
