// Package textnorm cleans raw quiz-file lines before they are compared or stored.
package textnorm

import "strings"

// Normalize strips leading and trailing whitespace and collapses every
// internal whitespace run to a single space. A line that is entirely
// whitespace normalizes to "".
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
