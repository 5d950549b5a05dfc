package tesseract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
)

// scriptedRunner replays canned results per tool and writes fake
// rasterised pages when pdftoppm is invoked.
type scriptedRunner struct {
	ocrOutputs []string
	ocrErr     error
	rasterErr  error
	pageCount  int
	calls      int
}

func (s *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	switch name {
	case rasterTool:
		if s.rasterErr != nil {
			return nil, s.rasterErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.pageCount; i++ {
			name := prefix + "-" + string(rune('0'+i)) + ".png"
			if err := os.WriteFile(name, []byte("png"), 0600); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case ocrTool:
		if s.ocrErr != nil {
			return nil, s.ocrErr
		}
		out := s.ocrOutputs[s.calls%len(s.ocrOutputs)]
		s.calls++
		return []byte(out), nil
	}
	return nil, errors.New("unexpected tool: " + name)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports("scan.png"))
	assert.True(t, e.Supports("scan.JPG"))
	assert.True(t, e.Supports("scan.jpeg"))
	assert.True(t, e.Supports("scan.tiff"))
	assert.True(t, e.Supports("scan.pdf"))
	assert.False(t, e.Supports("notes.txt"))
	assert.False(t, e.Supports("page.gif"))
}

func TestExtract_Image(t *testing.T) {
	runner := &scriptedRunner{ocrOutputs: []string{"  recognised text \n"}}
	e := NewWithRunner(runner, t.TempDir())

	result, err := e.Extract(context.Background(), "/docs/scan.png")
	require.NoError(t, err)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, []string{"recognised text"}, result.Pages)
}

func TestExtract_ImageOCRError(t *testing.T) {
	runner := &scriptedRunner{ocrErr: errors.New("bad image")}
	e := NewWithRunner(runner, t.TempDir())

	_, err := e.Extract(context.Background(), "/docs/scan.png")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_ScannedPDF(t *testing.T) {
	runner := &scriptedRunner{
		pageCount:  2,
		ocrOutputs: []string{"page one ocr", "page two ocr"},
	}
	e := NewWithRunner(runner, t.TempDir())

	result, err := e.Extract(context.Background(), "/docs/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, result.PageCount)
	assert.Equal(t, []string{"page one ocr", "page two ocr"}, result.Pages)
}

func TestExtract_ScannedPDFBlankPageKept(t *testing.T) {
	runner := &scriptedRunner{
		pageCount:  2,
		ocrOutputs: []string{"", "second page"},
	}
	e := NewWithRunner(runner, t.TempDir())

	result, err := e.Extract(context.Background(), "/docs/scan.pdf")
	require.NoError(t, err)
	require.Equal(t, 2, result.PageCount)
	assert.Equal(t, "", result.Pages[0])
	assert.Equal(t, "second page", result.Pages[1])
}

func TestExtract_RasterFailure(t *testing.T) {
	runner := &scriptedRunner{rasterErr: errors.New("pdftoppm crashed")}
	e := NewWithRunner(runner, t.TempDir())

	_, err := e.Extract(context.Background(), "/docs/scan.pdf")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_NoPagesProduced(t *testing.T) {
	runner := &scriptedRunner{pageCount: 0}
	e := NewWithRunner(runner, t.TempDir())

	_, err := e.Extract(context.Background(), "/docs/scan.pdf")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_CleansScratchDirectory(t *testing.T) {
	tempDir := t.TempDir()
	runner := &scriptedRunner{pageCount: 1, ocrOutputs: []string{"text"}}
	e := NewWithRunner(runner, tempDir)

	_, err := e.Extract(context.Background(), "/docs/scan.pdf")
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(tempDir, "ocr-pages-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "tesseract")
	assert.Contains(t, instructions, "poppler")
}
