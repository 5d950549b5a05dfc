package driven

// ConfigStore provides persistent key-value configuration.
// Keys use dot notation, e.g. "embedding.provider" or "chunk.size".
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value and persists immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from the backing store.
	Load() error
}
