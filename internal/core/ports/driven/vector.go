package driven

import (
	"context"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

// VectorIndex holds one embedding vector per passage and supports
// nearest-neighbour search over them.
//
// Vectors and passage records are appended in lock-step: the Nth vector
// always corresponds to the Nth passage. Implementations must append
// both as a unit so the pairing cannot drift.
//
// Writes are not internally serialised against each other; callers must
// ensure at most one concurrent Insert/Persist. Searches may run
// concurrently with each other.
type VectorIndex interface {
	// Insert appends vectors and their passage records in lock-step.
	// len(vectors) must equal len(passages); every vector must match the
	// index dimension. Newly inserted passages are immediately
	// searchable once Insert returns.
	Insert(ctx context.Context, vectors [][]float32, passages []domain.Passage) error

	// Search returns up to k passages ordered by ascending squared
	// Euclidean distance to the query vector. An empty or unusable index
	// and a query of the wrong dimension both yield an empty result, not
	// an error: downstream treats "no results" as a normal, answerable
	// condition.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedPassage, error)

	// Persist writes the current vectors and passage records to durable
	// storage so a restart reconstructs an equivalent index.
	Persist() error

	// Len returns the number of stored passages.
	Len() int

	// Dimensions returns the embedding dimension the index is bound to.
	Dimensions() int

	// Close releases resources.
	Close() error
}
