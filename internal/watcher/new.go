package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/mdoc/internal/logger"
)

const defaultSettle = 500 * time.Millisecond

// New creates a Watcher on inputDir and its client sub-folders. At most
// maxConcurrent handlers run at once.
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		return nil, fmt.Errorf("create input dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(inputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := fw.Add(filepath.Join(inputDir, e.Name())); err != nil {
			fw.Close()
			return nil, fmt.Errorf("add client folder %s: %w", e.Name(), err)
		}
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      filepath.Clean(inputDir),
		handler:       handler,
		logger:        log,
		watcher:       fw,
		maxConcurrent: maxConcurrent,
		slots:         make(chan struct{}, maxConcurrent),
		settle:        defaultSettle,
	}, nil
}
