// Package cleanup removes stale downloaded archives and temp
// extraction directories between runs.
package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"time"

	log "github.com/kmatton/speech-feature-io/logger"
)

func CleanupDownloadDirectory(ctx context.Context) {
	maxAge := 3 * 24 * time.Hour
	if dataDir := os.Getenv(`SPEECH_FEATURE_FILES`); dataDir != `` {
		_ = CleanupDirectory(ctx, dataDir, maxAge)
	}
	if tmpDir := os.Getenv(`SPEECH_FEATURE_TMP`); tmpDir != `` {
		_ = CleanupDirectory(ctx, tmpDir, maxAge)
	}
}

func CleanupDirectory(ctx context.Context, directory string, maxAge time.Duration) *log.Status {
	now := time.Now()
	count := 0
	entries, err := os.ReadDir(directory)
	if err != nil {
		return log.Error(ctx, 500, err, `Error reading directory`, directory)
	}
	for _, entry := range entries {
		dirPath := filepath.Join(directory, entry.Name())
		info, err := os.Stat(dirPath)
		if err != nil {
			log.Warn(ctx, `Unable to stat directory`, dirPath, err)
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			err = os.RemoveAll(dirPath)
			if err != nil {
				log.Warn(ctx, `Unable to remove directory`, dirPath, err)
				continue
			}
			count++
		}
	}
	log.Info(ctx, `Removed from directory`, directory, count)
	return nil
}
