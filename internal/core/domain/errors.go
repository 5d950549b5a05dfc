package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrExtractionFailed indicates the document's text could not be
	// obtained. Ingestion aborts before any store write.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrScannedNoOCR indicates a scanned document was given but no OCR
	// capability is available.
	ErrScannedNoOCR = errors.New("document appears scanned and no OCR tool is available")

	// ErrNoContent indicates extraction succeeded but cleaning and
	// chunking produced no passages to store.
	ErrNoContent = errors.New("document contains no indexable text")

	// ErrDimensionMismatch indicates a persisted vector index was built
	// with a different embedding dimension than the configured embedding
	// service. Mixing vector spaces is refused at startup.
	ErrDimensionMismatch = errors.New("vector index dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Ingestion and retrieval need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not
	// configured or unreachable. Answers cannot be produced without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
