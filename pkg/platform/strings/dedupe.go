// Package strings provides list parsing helpers for comma separated settings.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order and case are preserved.
//
//	DedupeAndTrim([]string{" eng ", "tha", "eng", ""})
//	// Returns: []string{"eng", "tha"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitList splits raw on any rune in seps and applies DedupeAndTrim.
// It returns nil when nothing remains.
//
//	SplitList("eng+tha, eng", ",+")
//	// Returns: []string{"eng", "tha"}
func SplitList(raw, seps string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := DedupeAndTrim(parts)
	if len(out) == 0 {
		return nil
	}
	return out
}
