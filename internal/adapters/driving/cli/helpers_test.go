package cli

import (
	"context"
	"time"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

// mockLibraryService implements driving.LibraryService for CLI tests.
type mockLibraryService struct {
	ingestResult *domain.IngestResult
	ingestErr    error
	ingestPaths  []string
	docs         []domain.DocumentRecord
	listErr      error
	content      string
	contentErr   error
	chunks       []domain.Chunk
	chunksErr    error
}

func (m *mockLibraryService) Ingest(ctx context.Context, path string) (*domain.IngestResult, error) {
	m.ingestPaths = append(m.ingestPaths, path)
	return m.ingestResult, m.ingestErr
}

func (m *mockLibraryService) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	return m.docs, m.listErr
}

func (m *mockLibraryService) Content(ctx context.Context, documentID string) (string, error) {
	return m.content, m.contentErr
}

func (m *mockLibraryService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	return m.chunks, m.chunksErr
}

// mockAnswerService implements driving.AnswerService for CLI tests.
type mockAnswerService struct {
	answer      string
	err         error
	gotQuestion string
	gotTopK     int
}

func (m *mockAnswerService) Ask(ctx context.Context, question string, topK int) (string, error) {
	m.gotQuestion = question
	m.gotTopK = topK
	return m.answer, m.err
}

// mockConfigStore implements driven.ConfigStore for CLI tests.
type mockConfigStore struct {
	data   map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.data[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }

// testIngestedAt keeps list output deterministic across tests.
var testIngestedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldLibrary := libraryService
	oldAnswer := answerService
	oldConfig := configStore
	oldAsk := askSettings

	libraryService = &mockLibraryService{
		ingestResult: &domain.IngestResult{
			Document: domain.DocumentRecord{
				ID:         "doc-1",
				Name:       "report.pdf",
				SourcePath: "/tmp/report.pdf",
				IngestedAt: testIngestedAt,
				PageCount:  3,
				ChunkCount: 12,
			},
			Chunks: []string{"alpha", "beta"},
		},
		docs: []domain.DocumentRecord{
			{
				ID:         "doc-1",
				Name:       "report.pdf",
				IngestedAt: testIngestedAt,
				PageCount:  3,
				ChunkCount: 12,
			},
		},
		content: "alpha\n\nbeta",
		chunks: []domain.Chunk{
			{ID: "c-1", DocumentID: "doc-1", Content: "alpha", Position: 0},
			{ID: "c-2", DocumentID: "doc-1", Content: "beta", Position: 1},
		},
	}
	answerService = &mockAnswerService{answer: "Compaction merges sstables."}
	configStore = newMockConfigStore()
	askSettings = domain.AskSettings{TopK: 10, MaxTokens: 1024}

	return func() {
		libraryService = oldLibrary
		answerService = oldAnswer
		configStore = oldConfig
		askSettings = oldAsk
	}
}
