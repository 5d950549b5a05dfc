// Package tesseract extracts text from page images and scanned PDFs
// with the tesseract OCR engine. Scanned PDFs are first rasterised
// into one PNG per page with pdftoppm, then each page is OCRed
// individually so page boundaries are kept.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
)

const (
	ocrTool    = "tesseract"
	rasterTool = "pdftoppm"
)

// ErrOCRToolNotFound indicates the tesseract binary is not installed.
var ErrOCRToolNotFound = errors.New("tesseract not found in PATH")

// ErrRasterToolNotFound indicates pdftoppm is missing, which blocks
// scanned-PDF OCR but not image OCR.
var ErrRasterToolNotFound = errors.New("pdftoppm not found in PATH")

// imageExtensions are the page image formats handed straight to tesseract.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// CommandRunner abstracts external command execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor implements driven.Extractor for images and scanned PDFs.
type Extractor struct {
	runner  CommandRunner
	tempDir string
}

var _ driven.Extractor = (*Extractor)(nil)

// New creates an OCR extractor.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
// tempDir overrides the rasterisation scratch directory when non-empty.
func NewWithRunner(runner CommandRunner, tempDir string) *Extractor {
	return &Extractor{runner: runner, tempDir: tempDir}
}

// CheckAvailable verifies the tesseract binary is in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(ocrTool); err != nil {
		return ErrOCRToolNotFound
	}
	return nil
}

// CheckRasterAvailable verifies pdftoppm is in PATH.
func CheckRasterAvailable() error {
	if _, err := exec.LookPath(rasterTool); err != nil {
		return ErrRasterToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing tesseract.
func InstallInstructions() string {
	return `tesseract provides OCR, pdftoppm (poppler-utils) rasterises scanned PDFs:
  macOS:         brew install tesseract poppler
  Debian/Ubuntu: apt install tesseract-ocr poppler-utils
  Fedora:        dnf install tesseract poppler-utils`
}

// Supports reports whether this extractor handles the given file.
func (e *Extractor) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return imageExtensions[ext] || ext == ".pdf"
}

// Extract OCRs an image as a single page, or rasterises a PDF and
// OCRs page by page. Blank pages come back as empty strings.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Extraction, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return e.extractPDF(ctx, path)
	}

	text, err := e.ocrImage(ctx, path)
	if err != nil {
		return nil, err
	}
	return &domain.Extraction{Pages: []string{text}, PageCount: 1}, nil
}

// extractPDF rasterises the PDF into per-page PNGs, then OCRs each.
func (e *Extractor) extractPDF(ctx context.Context, path string) (*domain.Extraction, error) {
	scratch, err := os.MkdirTemp(e.tempDir, "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	prefix := filepath.Join(scratch, "page")
	if _, err := e.runner.Run(ctx, rasterTool, "-png", "-r", "300", path, prefix); err != nil {
		return nil, fmt.Errorf("%w: pdftoppm failed for %s: %v", domain.ErrExtractionFailed, path, err)
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing rasterised pages: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: pdftoppm produced no pages for %s", domain.ErrExtractionFailed, path)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(images)

	pages := make([]string, 0, len(images))
	for _, img := range images {
		text, err := e.ocrImage(ctx, img)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}

	return &domain.Extraction{Pages: pages, PageCount: len(pages)}, nil
}

// ocrImage runs tesseract on one image and returns the trimmed text.
func (e *Extractor) ocrImage(ctx context.Context, path string) (string, error) {
	output, err := e.runner.Run(ctx, ocrTool, path, "stdout")
	if err != nil {
		return "", fmt.Errorf("%w: tesseract failed for %s: %v", domain.ErrExtractionFailed, path, err)
	}
	return strings.TrimSpace(string(output)), nil
}
