package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkSettings holds chunking configuration.
type ChunkSettings struct {
	// Size is the maximum passage length in characters.
	Size int

	// Overlap is the number of characters shared between adjacent
	// passages. Must be smaller than Size.
	Overlap int
}

// AskSettings holds query-time configuration.
type AskSettings struct {
	// TopK is the number of passages retrieved per question.
	TopK int

	// MaxTokens bounds the generated answer length.
	MaxTokens int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds generation provider settings.
	LLM LLMSettings

	// Chunk holds chunking settings.
	Chunk ChunkSettings

	// Ask holds query-time settings.
	Ask AskSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers default to a local Ollama instance; cloud providers must
// be configured explicitly with an API key.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
		},
		Chunk: ChunkSettings{
			Size:    600,
			Overlap: 120,
		},
		Ask: AskSettings{
			TopK:      10,
			MaxTokens: 1024,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each generation provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
