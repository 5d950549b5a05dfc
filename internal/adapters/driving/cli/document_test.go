package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

func TestAddCmd_Use(t *testing.T) {
	assert.Equal(t, "add [file]", addCmd.Use)
}

func TestAddCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAddCmd_ErrorsWithoutServices(t *testing.T) {
	oldLibrary := libraryService
	libraryService = nil
	defer func() { libraryService = oldLibrary }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add", "report.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAddCmd_PrintsIngestSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"add", "/tmp/report.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Added report.pdf")
	assert.Contains(t, buf.String(), "ID: doc-1")
	assert.Contains(t, buf.String(), "Pages: 3")
	assert.Contains(t, buf.String(), "Passages: 12")

	mock := libraryService.(*mockLibraryService)
	assert.Equal(t, []string{"/tmp/report.pdf"}, mock.ingestPaths)
}

func TestAddCmd_SurfacesIngestError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	libraryService.(*mockLibraryService).ingestResult = nil
	libraryService.(*mockLibraryService).ingestErr = domain.ErrUnsupportedType

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"add", "notes.docx"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestListCmd_Use(t *testing.T) {
	assert.Equal(t, "list", listCmd.Use)
}

func TestListCmd_PrintsLibrary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "doc-1")
	assert.Contains(t, buf.String(), "Name: report.pdf")
	assert.Contains(t, buf.String(), "Pages: 3, Passages: 12")
	assert.Contains(t, buf.String(), "Total: 1 documents")
}

func TestListCmd_EmptyLibrary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	libraryService.(*mockLibraryService).docs = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents in the library")
}

func TestShowCmd_Use(t *testing.T) {
	assert.Equal(t, "show [doc-id]", showCmd.Use)
}

func TestShowCmd_PrintsContent(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"show", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "alpha\n\nbeta")
}

func TestShowCmd_ChunksFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"show", "--chunks", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		showChunks = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--- passage 0 ---")
	assert.Contains(t, buf.String(), "alpha")
	assert.Contains(t, buf.String(), "--- passage 1 ---")
	assert.Contains(t, buf.String(), "beta")
}

func TestShowCmd_UnknownDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	libraryService.(*mockLibraryService).content = ""
	libraryService.(*mockLibraryService).contentErr = domain.ErrNotFound

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"show", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
