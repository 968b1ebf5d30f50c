// Package zip bundles output files for upload and unpacks downloaded
// input archives.
package zip

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/kmatton/speech-feature-io/logger"
)

// ZipFiles writes the named files into an archive next to the first
// one, returning the archive path and its size.
func ZipFiles(ctx context.Context, sources []string) (string, int64, *log.Status) {
	if len(sources) == 0 {
		return ``, 0, log.ErrorNoErr(ctx, 400, `No files to zip`)
	}
	target := strings.TrimSuffix(sources[0], filepath.Ext(sources[0])) + `.zip`
	zipFile, err := os.Create(target)
	if err != nil {
		return target, 0, log.Error(ctx, 500, err, `Error creating zip file`, target)
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	for _, source := range sources {
		status := addFile(ctx, zipWriter, source)
		if status != nil {
			_ = zipWriter.Close()
			return target, 0, status
		}
	}
	err = zipWriter.Close()
	if err != nil {
		return target, 0, log.Error(ctx, 500, err, `Error closing zip file`, target)
	}
	info, err := zipFile.Stat()
	if err != nil {
		return target, 0, log.Error(ctx, 500, err, `Error reading zip file size`, target)
	}
	return target, info.Size(), nil
}

func addFile(ctx context.Context, zipWriter *zip.Writer, source string) *log.Status {
	file, err := os.Open(source)
	if err != nil {
		return log.Error(ctx, 500, err, `Error opening file to zip`, source)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return log.Error(ctx, 500, err, `Error reading file info`, source)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return log.Error(ctx, 500, err, `Error building zip header`, source)
	}
	header.Name = info.Name()
	header.Method = zip.Deflate
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return log.Error(ctx, 500, err, `Error adding zip entry`, source)
	}
	_, err = io.Copy(writer, file)
	if err != nil {
		return log.Error(ctx, 500, err, `Error writing zip entry`, source)
	}
	return nil
}

// Unzip extracts an archive into targetDir, refusing entry names that
// would escape it.
func Unzip(ctx context.Context, archivePath string, targetDir string) *log.Status {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return log.Error(ctx, 500, err, `Error opening zip archive`, archivePath)
	}
	defer reader.Close()
	for _, entry := range reader.File {
		target := filepath.Join(targetDir, entry.Name)
		if !strings.HasPrefix(target, filepath.Clean(targetDir)+string(os.PathSeparator)) {
			return log.ErrorNoErr(ctx, 400, `Zip entry escapes target directory`, entry.Name)
		}
		if entry.FileInfo().IsDir() {
			err = os.MkdirAll(target, 0755)
			if err != nil {
				return log.Error(ctx, 500, err, `Error creating directory`, target)
			}
			continue
		}
		status := extractFile(ctx, entry, target)
		if status != nil {
			return status
		}
	}
	return nil
}

func extractFile(ctx context.Context, entry *zip.File, target string) *log.Status {
	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return log.Error(ctx, 500, err, `Error creating directory`, target)
	}
	source, err := entry.Open()
	if err != nil {
		return log.Error(ctx, 500, err, `Error opening zip entry`, entry.Name)
	}
	defer source.Close()
	file, err := os.Create(target)
	if err != nil {
		return log.Error(ctx, 500, err, `Error creating extracted file`, target)
	}
	defer file.Close()
	_, err = io.Copy(file, source)
	if err != nil {
		return log.Error(ctx, 500, err, `Error writing extracted file`, target)
	}
	return nil
}
