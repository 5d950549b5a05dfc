package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnicode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "ligature folded",
			input:    "eﬃcient",
			expected: "efficient",
		},
		{
			name:     "fullwidth digits folded",
			input:    "１２３",
			expected: "123",
		},
		{
			name:     "plain ascii untouched",
			input:    "hello world",
			expected: "hello world",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeUnicode(tc.input))
		})
	}
}

func TestStripSpecial(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "retains base punctuation",
			input:    "Done. Really? Yes!",
			expected: "Done. Really? Yes!",
		},
		{
			name:     "drops markup characters",
			input:    "a*b#c@d&e",
			expected: "abcde",
		},
		{
			name:     "keeps whitespace and parens",
			input:    "f(x) = y\nnext line",
			expected: "f(x)  y\nnext line",
		},
		{
			name:     "keeps non-latin letters",
			input:    "héllo wörld 日本",
			expected: "héllo wörld 日本",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripSpecial(tc.input))
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\t\tb \n\n c  "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}

func TestClean(t *testing.T) {
	in := "  The   quﬃck* brown\n\nfox!  "
	assert.Equal(t, "The quffick brown fox!", Clean(in))
}

func TestClean_Empty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
}
