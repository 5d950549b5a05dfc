package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Ingest a document into the library",
	Long: `Extract text from a PDF or page image, split it into passages,
embed them, and store them in the local library.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's details and content",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// showChunks switches show to per-passage output.
var showChunks bool

func init() {
	showCmd.Flags().BoolVar(&showChunks, "chunks", false, "Print individual passages instead of joined content")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	path := args[0]
	ctx := context.Background()

	result, err := libraryService.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to ingest document: %w", err)
	}

	cmd.Printf("Added %s\n", result.Document.Name)
	cmd.Printf("  ID: %s\n", result.Document.ID)
	cmd.Printf("  Pages: %d\n", result.Document.PageCount)
	cmd.Printf("  Passages: %d\n", result.Document.ChunkCount)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	docs, err := libraryService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in the library. Use 'docinferx add <file>' to ingest one.")
		return nil
	}

	cmd.Println("Library:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name: %s\n", docs[i].Name)
		cmd.Printf("    Ingested: %s\n", docs[i].IngestedAt.Format("2006-01-02 15:04"))
		cmd.Printf("    Pages: %d, Passages: %d\n", docs[i].PageCount, docs[i].ChunkCount)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	if showChunks {
		chunks, err := libraryService.Chunks(ctx, docID)
		if err != nil {
			return fmt.Errorf("failed to get passages: %w", err)
		}
		for i := range chunks {
			cmd.Printf("--- passage %d ---\n", chunks[i].Position)
			cmd.Println(chunks[i].Content)
		}
		return nil
	}

	content, err := libraryService.Content(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}
