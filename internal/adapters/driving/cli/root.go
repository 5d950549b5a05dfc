// Package cli implements the command-line interface using cobra.
// Services are injected once via Setup before Execute; commands guard
// against missing services rather than panic.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driving"
	"github.com/docinferx/docinferx-cli/internal/logger"
)

// Injected services. Nil until Setup runs; each command checks before use.
var (
	libraryService driving.LibraryService
	answerService  driving.AnswerService
	configStore    driven.ConfigStore
	askSettings    domain.AskSettings
)

// verbose toggles debug logging for all commands.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docinferx",
	Short: "Ask questions about your local documents",
	Long: `Docinferx ingests PDFs and page images into a local library and
answers questions about them using retrieval over embedded passages.

All data stays on your machine under ~/.docinferx.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Setup injects the services the commands depend on. Must be called
// before Execute.
func Setup(
	library driving.LibraryService,
	answer driving.AnswerService,
	config driven.ConfigStore,
	ask domain.AskSettings,
) {
	libraryService = library
	answerService = answer
	configStore = config
	askSettings = ask
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
