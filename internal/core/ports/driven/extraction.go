package driven

import (
	"context"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

// Extractor pulls page-ordered text out of a document on disk.
//
// Extraction is an external collaborator: the core never inspects
// document bytes itself. For scanned pages an empty page text is a
// valid result (no text found); a document whose text cannot be
// obtained at all yields an error and nothing is recorded for it.
type Extractor interface {
	// Extract returns the ordered page texts and page count for the
	// document at path.
	Extract(ctx context.Context, path string) (*domain.Extraction, error)

	// Supports reports whether this extractor handles the file at path,
	// decided by extension.
	Supports(path string) bool
}
