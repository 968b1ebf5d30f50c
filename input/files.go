// Package input locates the transcript and ASR files for each call,
// fetching and unpacking remote archives when the request points at S3.
package input

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	log "github.com/kmatton/speech-feature-io/logger"
)

// Glob finds input files matching a pattern. The call id is the name
// of the directory holding each file.
func Glob(ctx context.Context, search string) ([]InputFile, *log.Status) {
	matches, err := filepath.Glob(search)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error in Glob`, search)
	}
	var results []InputFile
	for _, match := range matches {
		var file InputFile
		file.Directory = filepath.Dir(match)
		file.Filename = filepath.Base(match)
		file.FileExt = filepath.Ext(match)
		file.CallId = filepath.Base(file.Directory)
		results = append(results, file)
	}
	return results, nil
}

// CallDirs lists the call subdirectories of a data directory, sorted
// by call id.
func CallDirs(ctx context.Context, dataDir string) (map[string]string, *log.Status) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, log.Error(ctx, 500, err, `Error reading data directory`, dataDir)
	}
	results := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			results[entry.Name()] = filepath.Join(dataDir, entry.Name())
		}
	}
	return results, nil
}

// SortedCallIds returns the keys of a CallDirs result in order.
func SortedCallIds(callDirs map[string]string) []string {
	var ids []string
	for id := range callDirs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
