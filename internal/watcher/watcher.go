package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	slots         chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup
}

// Start monitors the inbox until ctx is cancelled, then waits for running
// handlers to finish.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(media.WatchExtensions, ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if w.isClientFolder(event.Name) {
				if err := w.watcher.Add(event.Name); err != nil {
					w.logger.Warn(ctx, "Failed to watch client folder %s: %v", event.Name, err)
				} else {
					w.logger.Info(ctx, "Watching client folder: %s", event.Name)
				}
				continue
			}
			if !media.HasExtension(event.Name, media.WatchExtensions) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			select {
			case w.slots <- struct{}{}:
				w.wg.Add(1)
				go w.handle(ctx, event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handle(ctx context.Context, filePath string) {
	defer w.wg.Done()
	defer func() { <-w.slots }()

	if err := waitStable(ctx, filePath, w.settle); err != nil {
		w.logger.Warn(ctx, "Skipping %s: %v", filePath, err)
		return
	}
	if err := w.handler(ctx, filePath); err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isClientFolder reports whether path is a directory directly inside the inbox.
func (w *implWatcher) isClientFolder(path string) bool {
	if filepath.Dir(filepath.Clean(path)) != w.inputDir {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// waitStable polls the file size until two reads an interval apart agree,
// so copies still in progress are not picked up half written.
func waitStable(ctx context.Context, path string, interval time.Duration) error {
	var last int64 = -1
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}
		size := info.Size()
		if size > 0 && size == last {
			return nil
		}
		last = size

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
