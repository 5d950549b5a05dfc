// Package chunker splits cleaned document text into bounded passages,
// respecting page boundaries when page markers are present.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the default maximum passage length in characters.
const DefaultChunkSize = 600

// DefaultOverlap is the default number of overlapping characters
// between adjacent passages.
const DefaultOverlap = 120

// PageMarker formats the delimiter written between extracted pages.
// Split recognises it case-insensitively.
const PageMarker = "### PAGE %d ###"

var (
	pageMarkerRe = regexp.MustCompile(`(?i)###\s*page\s*\d+\s*###`)
	newlineRe    = regexp.MustCompile(`\r\n?`)
	blankRunRe   = regexp.MustCompile(`\n{2,}`)
)

// Chunker splits text into fixed-size passages with overlap.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the passage size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay strictly below size or the window cannot advance
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	return c
}

// Size returns the configured passage size.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into ordered passages. Text containing page
// markers is split per page first: a page that fits the chunk size is
// emitted whole, a longer page goes through the sliding window. Text
// without markers is windowed as one piece. Passages never span two
// marked pages. Empty input yields nil.
func (c *Chunker) Split(text string) []string {
	text = normalizeBlankLines(text)
	if text == "" {
		return nil
	}

	if !pageMarkerRe.MatchString(text) {
		return c.slidingChunks(text)
	}

	var out []string
	for _, page := range pageMarkerRe.Split(text, -1) {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		if len(page) <= c.size {
			out = append(out, page)
			continue
		}
		out = append(out, c.slidingChunks(page)...)
	}
	return out
}

// slidingChunks emits overlapping windows of at most size characters,
// advancing by size-overlap each step so every character is covered.
func (c *Chunker) slidingChunks(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, len(text)/step+1)

	for start := 0; start < len(text); start += step {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// normalizeBlankLines converts line endings to LF, collapses runs of
// blank lines to a single blank line, and trims the ends.
func normalizeBlankLines(text string) string {
	text = newlineRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
