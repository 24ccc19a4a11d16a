package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"vessfm/logger"
)

var supportedAudioExt = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".mp4":  true,
	".wav":  true,
	".dsf":  true,
}

// IsAudioFile reports whether the path looks like a supported audio file.
func IsAudioFile(path string) bool {
	return supportedAudioExt[strings.ToLower(filepath.Ext(path))]
}

// ScanDirectory walks dir and enqueues every supported audio file for
// ingestion on behalf of ownerID. Blocks when the queue is full rather
// than dropping files. Returns the number of files enqueued.
func ScanDirectory(ctx context.Context, runner *Runner, dir string, ownerID int64) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path during scan",
				logger.String("path", path),
				logger.ErrorField(err))
			return nil
		}
		if d.IsDir() || !IsAudioFile(path) {
			return nil
		}
		if err := runner.EnqueueWait(ctx, Job{FilePath: path, OwnerID: ownerID}); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("scan %s: %w", dir, err)
	}
	logger.Info("directory scan complete",
		logger.String("dir", dir),
		logger.Int("files", count))
	return count, nil
}
