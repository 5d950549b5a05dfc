package driven

import (
	"context"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

// LibraryStore is the durable, append-only ledger of ingested documents.
// There is no update or delete: a record is written once per ingestion
// and kept forever.
type LibraryStore interface {
	// Add appends a document record and durably persists the full
	// current set before returning.
	Add(ctx context.Context, record domain.DocumentRecord) error

	// List returns all known document records in insertion order.
	List(ctx context.Context) ([]domain.DocumentRecord, error)
}
