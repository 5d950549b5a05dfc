package domain

import "time"

// DocumentRecord is the library ledger row for an ingested document.
// Records are append-only: created once at ingestion, never mutated or
// deleted afterwards. The LibraryStore owns them exclusively.
type DocumentRecord struct {
	// ID is the unique identifier assigned at ingestion.
	ID string `json:"doc_id"`

	// Name is the base file name of the ingested document.
	Name string `json:"name"`

	// SourcePath is the path the document was ingested from.
	SourcePath string `json:"path"`

	// IngestedAt is when the document was ingested.
	IngestedAt time.Time `json:"timestamp"`

	// PageCount is the number of pages reported by extraction (>= 1).
	PageCount int `json:"pages"`

	// ChunkCount is the number of passages stored for this document.
	ChunkCount int `json:"chunks"`
}

// Passage is the retrieval unit: a bounded substring of a document's
// extracted text, stored in the vector index alongside its embedding.
// The Nth passage in the index corresponds to the Nth vector; the two
// are always appended as a unit.
type Passage struct {
	// DocumentID references the DocumentRecord this passage came from.
	DocumentID string `json:"doc_id"`

	// Text is the passage content.
	Text string `json:"text"`

	// Filename is the source document's name, kept for display.
	Filename string `json:"filename"`

	// PageCount is the source document's page count, kept for display.
	PageCount int `json:"pages"`
}

// RetrievedPassage is a passage returned by a similarity search,
// paired with its distance to the query vector. Smaller distance
// means more similar.
type RetrievedPassage struct {
	Passage  Passage
	Distance float64
}

// Chunk is a stored document fragment in the content store.
// Unlike Passage it carries identity and ordering so the full document
// text can be reconstructed for browsing.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation, kept for inspection.
	Embedding []float32
}

// Extraction is the result of pulling text out of a document.
// Pages are in document order; a page with no recoverable text is an
// empty string, which is a valid result for OCR.
type Extraction struct {
	// Pages holds one text per page, in order.
	Pages []string

	// PageCount is the number of pages in the source document.
	PageCount int
}

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	// Document is the recorded library row.
	Document DocumentRecord

	// Chunks are the passage texts actually stored in the index.
	Chunks []string
}
