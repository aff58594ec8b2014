package engine

import (
	"regexp"
	"strings"
)

var (
	specialChars = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text for matching: lowercase, strip
// punctuation and special characters (digits survive), collapse whitespace
// runs to a single space, trim. Idempotent, so stored labels and fresh
// descriptions can be normalized independently and still compare equal.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = specialChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
