package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docinferx/docinferx-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session over the ingested library.

Each question is answered from retrieved passages, like 'ask', with
the transcript kept on screen.

Controls:
  Enter    - Ask
  ↑/↓      - Scroll transcript
  Esc      - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured; set AI providers with 'docinferx config'")
	}

	// Panic recovery so terminal state problems come with a trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	model := tui.New(answerService, askSettings.TopK).WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
