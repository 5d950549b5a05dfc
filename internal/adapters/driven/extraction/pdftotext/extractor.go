// Package pdftotext extracts page text from native PDFs using the
// pdftotext tool from poppler-utils.
//
// pdftotext emits a form feed between pages, which is how page
// boundaries survive into the extraction result. PDFs with no
// extractable text at all are treated as scanned: extraction is
// delegated to a configured OCR extractor, or fails with
// ErrScannedNoOCR when none is available.
package pdftotext

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
)

// toolName is the external binary this extractor shells out to.
const toolName = "pdftotext"

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner abstracts external command execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor implements driven.Extractor for native PDFs.
type Extractor struct {
	runner CommandRunner
	ocr    driven.Extractor
}

var _ driven.Extractor = (*Extractor)(nil)

// New creates a PDF text extractor. The ocr argument is the fallback
// for scanned PDFs and may be nil when OCR is unavailable.
func New(ocr driven.Extractor) *Extractor {
	return &Extractor{runner: execRunner{}, ocr: ocr}
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner, ocr driven.Extractor) *Extractor {
	return &Extractor{runner: runner, ocr: ocr}
}

// CheckAvailable verifies the pdftotext binary is in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is part of poppler-utils:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// Supports reports whether this extractor handles the given file.
func (e *Extractor) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extract runs pdftotext and splits the output into pages on form
// feeds. A PDF whose pages are all blank is handed to the OCR
// extractor when one is configured.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Extraction, error) {
	output, err := e.runner.Run(ctx, toolName, "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrExtractionFailed, path, err)
	}

	pages := splitPages(string(output))
	if !hasText(pages) {
		if e.ocr == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrScannedNoOCR, path)
		}
		return e.ocr.Extract(ctx, path)
	}

	return &domain.Extraction{Pages: pages, PageCount: len(pages)}, nil
}

// splitPages splits pdftotext output on form feeds. Only the single
// empty segment after the final form feed is dropped; a genuinely
// blank page in the middle of a document stays as an empty entry so
// page numbering is preserved.
func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// hasText reports whether any page contains non-whitespace text.
func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
