// Package watch drives document ingestion from filesystem events.
// Files dropped into a watched directory are ingested one at a time
// after their writes settle.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driving"
	"github.com/docinferx/docinferx-cli/internal/logger"
)

// DefaultSettle is how long a file must go without write events before
// it is considered fully copied.
const DefaultSettle = 500 * time.Millisecond

// defaultExtensions are the file types picked up by the watcher.
var defaultExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// Config holds optional watcher settings.
type Config struct {
	// Settle is the quiet period after the last write before ingesting.
	Settle time.Duration

	// Extensions restricts which file types are ingested. Nil uses the
	// defaults (PDF and page image formats).
	Extensions map[string]bool
}

// Notice reports one completed ingestion attempt.
type Notice struct {
	Path   string
	Result *domain.IngestResult
	Err    error
}

// Watcher ingests documents as they appear in a directory. Ingestions
// run serially on the watch goroutine, never concurrently.
type Watcher struct {
	library    driving.LibraryService
	settle     time.Duration
	extensions map[string]bool
}

// New creates a watcher over the given library service.
func New(library driving.LibraryService, cfg Config) *Watcher {
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.Extensions == nil {
		cfg.Extensions = defaultExtensions
	}
	return &Watcher{
		library:    library,
		settle:     cfg.Settle,
		extensions: cfg.Extensions,
	}
}

// Run watches dir until ctx is cancelled. Each completed ingestion
// attempt is reported through notices, which may be nil.
func (w *Watcher) Run(ctx context.Context, dir string, notices chan<- Notice) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", domain.ErrInvalidInput, dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logger.Info("watching %s", dir)

	// pending maps path -> time of last write event. A file is ingested
	// once it has been quiet for the settle period.
	pending := make(map[string]time.Time)
	ingested := make(map[string]bool)

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !w.wanted(event.Name) || ingested[event.Name] {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				ingested[path] = true

				result, err := w.library.Ingest(ctx, path)
				if err != nil {
					logger.Warn("failed to ingest %s: %v", path, err)
				} else {
					logger.Info("ingested %s (%d passages)", path, result.Document.ChunkCount)
				}
				if notices != nil {
					notices <- Notice{Path: path, Result: result, Err: err}
				}
			}
		}
	}
}

func (w *Watcher) wanted(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}
