package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "APPLE.COM/BILL", "applecombill"},
		{"trims", "   coffee shop  ", "coffee shop"},
		{"collapses whitespace", "coffee \t  shop", "coffee shop"},
		{"strips punctuation keeps digits", "7-Eleven #1234!", "7eleven 1234"},
		{"empty", "", ""},
		{"only punctuation", "!!!---***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  Uber-Trip!!  ", "AT PUBLIC TRANSPORT AT AUCKLAND CENTRA", "a  b   c", "already normal"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestNormalizePunctuationInsensitive(t *testing.T) {
	// Punctuation is stripped outright, so hyphenated and joined spellings
	// compare equal.
	assert.Equal(t, Normalize("ubertrip"), Normalize("  Uber-Trip!!  "))
}
