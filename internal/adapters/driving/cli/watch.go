package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docinferx/docinferx-cli/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new documents",
	Long: `Watch a directory and automatically ingest documents dropped into
it. Files are picked up once their writes settle; ingestions run one
at a time. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	dir := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notices := make(chan watch.Notice)
	go func() {
		for n := range notices {
			if n.Err != nil {
				cmd.PrintErrf("failed: %s: %v\n", n.Path, n.Err)
				continue
			}
			cmd.Printf("Added %s (%d passages)\n", n.Result.Document.Name, n.Result.Document.ChunkCount)
		}
	}()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	watcher := watch.New(libraryService, watch.Config{})
	err := watcher.Run(ctx, dir, notices)
	close(notices)
	if errors.Is(err, context.Canceled) {
		cmd.Println("Stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
