package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: this is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently,
	// returning one vector per input in the same order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is fixed per model and must match the vector index it feeds.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to semantic mode.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
