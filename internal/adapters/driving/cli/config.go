package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `View and configure AI providers, chunking, and retrieval options.

Keys use dot notation, e.g.:
  embedding.provider   ollama | openai
  embedding.model      model name
  embedding.base_url   Ollama endpoint
  embedding.api_key    OpenAI key
  llm.provider         ollama | openai
  llm.model            model name
  chunk.size           passage length in characters
  chunk.overlap        characters shared between adjacent passages
  ask.top_k            passages retrieved per question
  ask.max_tokens       answer length bound`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	embProvider := domain.AIProvider(configStore.GetString("embedding.provider"))
	cmd.Println("[Embedding]")
	printProviderValue(cmd, "embedding.provider", embProvider)
	printConfigValue(cmd, "embedding.model")
	if embProvider.IsLocal() {
		printConfigValue(cmd, "embedding.base_url")
	}
	if embProvider.RequiresAPIKey() {
		printConfigValue(cmd, "embedding.api_key")
	}
	cmd.Println()

	llmProvider := domain.AIProvider(configStore.GetString("llm.provider"))
	cmd.Println("[LLM]")
	printProviderValue(cmd, "llm.provider", llmProvider)
	printConfigValue(cmd, "llm.model")
	if llmProvider.IsLocal() {
		printConfigValue(cmd, "llm.base_url")
	}
	if llmProvider.RequiresAPIKey() {
		printConfigValue(cmd, "llm.api_key")
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	printConfigValue(cmd, "chunk.size")
	printConfigValue(cmd, "chunk.overlap")
	cmd.Println()

	cmd.Println("[Retrieval]")
	printConfigValue(cmd, "ask.top_k")
	printConfigValue(cmd, "ask.max_tokens")
	cmd.Println()

	printAvailableProviders(cmd)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	value, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key not set: %s", key)
	}

	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if key == "embedding.provider" || key == "llm.provider" {
		if p := domain.AIProvider(args[1]); !p.IsValid() {
			return fmt.Errorf("unknown provider %q (valid: %s)", args[1], providerNames())
		}
	}

	if err := configStore.Set(key, parseConfigValue(args[1])); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// parseConfigValue converts numeric and boolean literals so typed
// reads (GetInt, GetBool) see the expected kind.
func parseConfigValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func printConfigValue(cmd *cobra.Command, key string) {
	value, ok := configStore.Get(key)
	if !ok {
		cmd.Printf("  %s: (not set)\n", key)
		return
	}
	if strings.HasSuffix(key, "api_key") {
		cmd.Printf("  %s: %s\n", key, maskAPIKey(fmt.Sprintf("%v", value)))
		return
	}
	cmd.Printf("  %s: %v\n", key, value)
}

// printProviderValue prints a provider key with its description, or
// flags an unrecognised value.
func printProviderValue(cmd *cobra.Command, key string, p domain.AIProvider) {
	switch {
	case p == "":
		cmd.Printf("  %s: (not set)\n", key)
	case !p.IsValid():
		cmd.Printf("  %s: %s (unknown, valid: %s)\n", key, p, providerNames())
	default:
		cmd.Printf("  %s: %s - %s\n", key, p, p.Description())
	}
}

// printAvailableProviders lists every supported provider with its
// default models so users can fill in the keys above.
func printAvailableProviders(cmd *cobra.Command) {
	embDefaults := domain.DefaultEmbeddingModels()
	llmDefaults := domain.DefaultLLMModels()

	cmd.Println("Available providers:")
	for _, p := range domain.AllEmbeddingProviders() {
		cmd.Printf("  %s - %s\n", p, p.Description())
		cmd.Printf("    default embedding model: %s\n", embDefaults[p])
		cmd.Printf("    default llm model: %s\n", llmDefaults[p])
		if p.RequiresAPIKey() {
			cmd.Printf("    requires an API key\n")
		}
	}
}

func providerNames() string {
	providers := domain.AllEmbeddingProviders()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
