package driving

import (
	"context"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

// LibraryService manages document ingestion and browsing.
type LibraryService interface {
	// Ingest extracts, chunks, embeds, and indexes the document at path,
	// then records it in the library. Returns the recorded row together
	// with the passages actually stored.
	Ingest(ctx context.Context, path string) (*domain.IngestResult, error)

	// List returns all ingested documents in insertion order.
	List(ctx context.Context) ([]domain.DocumentRecord, error)

	// Content reconstructs a document's full text from its stored chunks.
	Content(ctx context.Context, documentID string) (string, error)

	// Chunks returns a document's stored chunks ordered by position.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}
