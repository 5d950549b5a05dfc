// Command docinferx is a local document question-answering tool. It
// ingests PDFs and page images into a library under ~/.docinferx and
// answers questions about them from retrieved passages.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docinferx/docinferx-cli/internal/adapters/driven/ai"
	configfile "github.com/docinferx/docinferx-cli/internal/adapters/driven/config/file"
	"github.com/docinferx/docinferx-cli/internal/adapters/driven/index/flat"
	"github.com/docinferx/docinferx-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/docinferx/docinferx-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docinferx/docinferx-cli/internal/adapters/driving/cli"
	"github.com/docinferx/docinferx-cli/internal/chunker"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driving"
	"github.com/docinferx/docinferx-cli/internal/core/services"
	"github.com/docinferx/docinferx-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The --verbose flag is parsed by cobra after composition; peek at
	// the args so startup warnings are not lost.
	for _, arg := range os.Args[1:] {
		if arg == "--verbose" || arg == "-v" {
			logger.SetVerbose(true)
		}
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	configStore, err := configfile.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	settings := configStore.Settings()

	// Extraction tools are probed once; a missing pdftotext only blocks
	// ingestion, browsing and asking still work.
	caps := ai.DetectExtractionCapabilities()
	extractor, err := ai.CreateExtractor(caps)
	if err != nil {
		logger.Warn("%v", err)
	}

	// AI services are validated with a bounded ping here so add/ask fail
	// fast with guidance instead of midway through a pipeline.
	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("%v", err)
	}
	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("%v", err)
	}

	// The index dimension is fixed by the embedding model; without an
	// embedder there is nothing to index or search.
	var index driven.VectorIndex
	if embedder != nil {
		idx, err := flat.Open(filepath.Join(dataDir, "index.bin"), embedder.Dimensions())
		if err != nil {
			return fmt.Errorf("failed to open vector index: %w", err)
		}
		defer idx.Close()
		index = idx
	}

	libraryStore, err := jsonfile.NewLibraryStore(filepath.Join(dataDir, "library.json"))
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}

	docStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open content store: %w", err)
	}
	defer docStore.Close()

	ch := chunker.New(
		chunker.WithChunkSize(settings.Chunk.Size),
		chunker.WithOverlap(settings.Chunk.Overlap),
	)

	libraryService := services.NewLibraryService(extractor, embedder, index, docStore, libraryStore, ch)

	var answerService driving.AnswerService
	if embedder != nil && llm != nil && index != nil {
		answerService = services.NewAnswerService(embedder, index, llm, settings.Ask.MaxTokens)
	}

	cli.Setup(libraryService, answerService, configStore, settings.Ask)
	return cli.Execute()
}

// resolveDataDir returns the data directory, honouring DOCINFERX_HOME
// for tests and alternate setups.
func resolveDataDir() (string, error) {
	if dir := os.Getenv("DOCINFERX_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docinferx"), nil
}
