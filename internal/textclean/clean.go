// Package textclean normalises raw extracted text before chunking.
// Cleaning is a pure transform: unicode normalisation, removal of
// characters outside the retained classes, and whitespace collapsing.
package textclean

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// retainedPunct is the punctuation kept after cleaning. Everything that
// is not a letter, digit, whitespace, or one of these is dropped.
const retainedPunct = ".,;:!?()"

// NormalizeUnicode applies NFKC normalisation, folding compatibility
// variants (ligatures, full-width forms) into their canonical shapes.
func NormalizeUnicode(text string) string {
	return norm.NFKC.String(text)
}

// StripSpecial removes characters outside letters, digits, whitespace,
// and a small retained punctuation set.
func StripSpecial(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(retainedPunct, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseWhitespace reduces every whitespace run to a single space and
// trims the ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Clean runs the full pipeline: normalise, strip, collapse.
func Clean(text string) string {
	text = NormalizeUnicode(text)
	text = StripSpecial(text)
	return CollapseWhitespace(text)
}
