package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_EmptyDirectory(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("chunk.size", 800))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 800, store.GetInt("chunk.size"))
	assert.True(t, store.GetBool("verbose"))
}

func TestGet_TypeMismatches(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("key", "string-value"))

	assert.Equal(t, 0, store.GetInt("key"))
	assert.False(t, store.GetBool("key"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("ask.top_k", 7))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", reopened.GetString("llm.model"))
	assert.Equal(t, 7, reopened.GetInt("ask.top_k"))
}

func TestWritesNestedTOMLTables(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("chunk.size", 600))
	require.NoError(t, store.Set("chunk.overlap", 120))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[chunk]")
	assert.Contains(t, string(data), "size = 600")
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"top": "value",
		"chunk": map[string]any{
			"size": int64(600),
			"deep": map[string]any{
				"key": true,
			},
		},
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, "value", flat["top"])
	assert.Equal(t, int64(600), flat["chunk.size"])
	assert.Equal(t, true, flat["chunk.deep.key"])
}

func TestSettings_Defaults(t *testing.T) {
	store := newTestStore(t)

	settings := store.Settings()
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, settings)
}

func TestSettings_Overrides(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("embedding.model", "text-embedding-3-small"))
	require.NoError(t, store.Set("embedding.api_key", "sk-test"))
	require.NoError(t, store.Set("chunk.size", 900))
	require.NoError(t, store.Set("ask.top_k", 3))

	settings := store.Settings()
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 900, settings.Chunk.Size)
	assert.Equal(t, 3, settings.Ask.TopK)
	// Unset values keep defaults.
	assert.Equal(t, 120, settings.Chunk.Overlap)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
}
