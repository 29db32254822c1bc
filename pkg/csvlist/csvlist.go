// Package csvlist converts free-text comma separated form fields to and from lists.
package csvlist

import "strings"

const separator = ", "

// Parse splits text on commas, trims every token and drops empty ones.
// Order and duplicates are kept.
func Parse(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Format joins items for display in a single text input.
// Tokens are assumed to be comma free.
func Format(items []string) string {
	return strings.Join(items, separator)
}
