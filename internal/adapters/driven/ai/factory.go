// Package ai provides factory functions for creating AI service
// adapters and for detecting which extraction tools are installed.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/docinferx/docinferx-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docinferx/docinferx-cli/internal/adapters/driven/embedding/openai"
	"github.com/docinferx/docinferx-cli/internal/adapters/driven/extraction/pdftotext"
	"github.com/docinferx/docinferx-cli/internal/adapters/driven/extraction/tesseract"
	ollamallm "github.com/docinferx/docinferx-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docinferx/docinferx-cli/internal/adapters/driven/llm/openai"
	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
	"github.com/docinferx/docinferx-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// ExtractionCapabilities records which external extraction tools were
// found in PATH. Detection happens once at startup; the set of
// supported file types follows from it rather than from runtime
// failures.
type ExtractionCapabilities struct {
	PDFText bool // pdftotext available
	OCR     bool // tesseract available
	Raster  bool // pdftoppm available (scanned-PDF OCR)
}

// DetectExtractionCapabilities checks PATH for the extraction tools.
func DetectExtractionCapabilities() ExtractionCapabilities {
	return ExtractionCapabilities{
		PDFText: pdftotext.CheckAvailable() == nil,
		OCR:     tesseract.CheckAvailable() == nil,
		Raster:  tesseract.CheckRasterAvailable() == nil,
	}
}

// CreateExtractor builds the extractor chain the detected tools allow.
// With OCR present, scanned PDFs fall through to it; without pdftotext
// nothing can be ingested and an error with install guidance is
// returned. Missing OCR tools only narrow what can be ingested, so
// they warn instead of failing.
func CreateExtractor(caps ExtractionCapabilities) (driven.Extractor, error) {
	if !caps.PDFText {
		return nil, fmt.Errorf("%w\n%s", pdftotext.ErrPDFToolNotFound, pdftotext.InstallInstructions())
	}

	var ocr driven.Extractor
	if caps.OCR && caps.Raster {
		ocr = tesseract.New()
	} else {
		logger.Warn("OCR tools not found, scanned PDFs and page images cannot be ingested\n%s",
			tesseract.InstallInstructions())
	}

	return pdftotext.New(ocr), nil
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity with a bounded ping.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docinferx config' to fix", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docinferx config' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity with a bounded ping.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docinferx config' to fix", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docinferx config' to fix",
			domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates the embedding service the settings
// select. Returns nil when the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service the settings select.
// Returns nil when the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
