package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docinferx/docinferx-cli/internal/chunker"
	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driving"
	"github.com/docinferx/docinferx-cli/internal/logger"
	"github.com/docinferx/docinferx-cli/internal/textclean"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService manages the document lifecycle: extraction, cleaning,
// chunking, embedding, indexing, and the library ledger.
type LibraryService struct {
	extractor    driven.Extractor
	embedder     driven.EmbeddingService
	index        driven.VectorIndex
	docStore     driven.DocumentStore
	libraryStore driven.LibraryStore
	chunker      *chunker.Chunker
}

// NewLibraryService creates a library service. The docStore is
// optional; without it `show` cannot reconstruct content but ingestion
// still works.
func NewLibraryService(
	extractor driven.Extractor,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	libraryStore driven.LibraryStore,
	ch *chunker.Chunker,
) *LibraryService {
	if ch == nil {
		ch = chunker.New()
	}
	return &LibraryService{
		extractor:    extractor,
		embedder:     embedder,
		index:        index,
		docStore:     docStore,
		libraryStore: libraryStore,
		chunker:      ch,
	}
}

// Ingest runs the full pipeline for one document. Vectors are inserted
// and persisted before the library record is written: a crash in
// between leaves an unlisted but searchable document, never a listed
// document with no vectors.
func (s *LibraryService) Ingest(ctx context.Context, path string) (*domain.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("Path: %s", path)

	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no extraction tool available", domain.ErrExtractionFailed)
	}
	if s.embedder == nil || s.index == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if !s.extractor.Supports(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	extraction, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	logger.Debug("Extracted %d pages", extraction.PageCount)

	// Pages are cleaned one at a time so the markers assembled below
	// cannot be mangled by the cleaner.
	text := assemblePages(extraction.Pages)

	texts := s.chunker.Split(text)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoContent, path)
	}
	logger.Debug("Split into %d chunks (size=%d overlap=%d)",
		len(texts), s.chunker.Size(), s.chunker.Overlap())

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	documentID := uuid.NewString()
	name := filepath.Base(path)

	passages := make([]domain.Passage, len(texts))
	for i, t := range texts {
		passages[i] = domain.Passage{
			DocumentID: documentID,
			Text:       t,
			Filename:   name,
			PageCount:  extraction.PageCount,
		}
	}

	if err := s.index.Insert(ctx, vectors, passages); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}
	if err := s.index.Persist(); err != nil {
		return nil, fmt.Errorf("persist index: %w", err)
	}
	logger.Debug("Index now holds %d passages", s.index.Len())

	record := domain.DocumentRecord{
		ID:         documentID,
		Name:       name,
		SourcePath: path,
		IngestedAt: time.Now().UTC(),
		PageCount:  extraction.PageCount,
		ChunkCount: len(texts),
	}

	if s.docStore != nil {
		if err := s.docStore.SaveDocument(ctx, record); err != nil {
			return nil, fmt.Errorf("save document content: %w", err)
		}
		chunks := make([]domain.Chunk, len(texts))
		for i, t := range texts {
			chunks[i] = domain.Chunk{
				ID:         uuid.NewString(),
				DocumentID: documentID,
				Content:    t,
				Position:   i,
				Embedding:  vectors[i],
			}
		}
		if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("save chunks: %w", err)
		}
	}

	// Ledger write comes last.
	if err := s.libraryStore.Add(ctx, record); err != nil {
		return nil, fmt.Errorf("record document: %w", err)
	}
	logger.Info("Ingested %s: %d pages, %d chunks", name, record.PageCount, record.ChunkCount)

	return &domain.IngestResult{Document: record, Chunks: texts}, nil
}

// List returns all ingested documents in insertion order.
func (s *LibraryService) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	return s.libraryStore.List(ctx)
}

// Content reconstructs a document's text from its stored chunks.
func (s *LibraryService) Content(ctx context.Context, documentID string) (string, error) {
	chunks, err := s.Chunks(ctx, documentID)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n"), nil
}

// Chunks returns a document's stored chunks ordered by position.
func (s *LibraryService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("%w: content store not configured", domain.ErrNotFound)
	}
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.docStore.GetChunks(ctx, documentID)
}

// assemblePages cleans each page and joins them with page markers so
// chunking keeps page boundaries intact.
func assemblePages(pages []string) string {
	var b strings.Builder
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, chunker.PageMarker, i+1)
		b.WriteString("\n")
		b.WriteString(textclean.Clean(page))
	}
	return b.String()
}
