package ingest

import (
	"context"
	"fmt"

	"vessfm/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a drop directory and ingests audio files as they appear.
type Watcher struct {
	runner  *Runner
	dir     string
	ownerID int64
}

// NewWatcher creates a directory watcher feeding the runner.
func NewWatcher(runner *Runner, dir string, ownerID int64) *Watcher {
	return &Watcher{runner: runner, dir: dir, ownerID: ownerID}
}

// Watch blocks until ctx is done, enqueueing every audio file created or
// renamed into the directory. Files being copied in are picked up on the
// rename most tools perform when the copy finishes.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching directory for new audio files", logger.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsAudioFile(event.Name) {
				continue
			}
			if err := w.runner.EnqueueWait(ctx, Job{FilePath: event.Name, OwnerID: w.ownerID}); err != nil {
				return err
			}
			logger.Info("new file queued from watch directory", logger.String("file", event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		}
	}
}
