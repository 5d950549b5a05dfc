package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieve the passages most relevant to the question and generate
an answer grounded in them. Answers only use indexed content; when
nothing relevant is found a fixed fallback is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

// askTopK overrides the configured retrieval depth when positive.
var askTopK int

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Number of passages to retrieve (0 uses the configured default)")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured; set AI providers with 'docinferx config'")
	}

	question := args[0]
	ctx := context.Background()

	topK := askTopK
	if topK <= 0 {
		topK = askSettings.TopK
	}

	answer, err := answerService.Ask(ctx, question, topK)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	cmd.Println(answer)
	return nil
}
