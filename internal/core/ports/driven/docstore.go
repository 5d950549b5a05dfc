package driven

import (
	"context"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

// DocumentStore persists full document content and chunks for browsing.
// Backed by SQLite. The retrieval path never reads it; it exists so the
// CLI can show a document's reconstructed text and chunk layout.
type DocumentStore interface {
	// SaveDocument stores a document's descriptive row.
	SaveDocument(ctx context.Context, record domain.DocumentRecord) error

	// SaveChunks stores the chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document row by ID.
	GetDocument(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Close releases the underlying database handle.
	Close() error
}
