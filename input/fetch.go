package input

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/utility/zip"
)

// IsS3Path reports whether a requested data path is an s3 object.
func IsS3Path(dataPath string) bool {
	return strings.HasPrefix(dataPath, `s3://`)
}

// ResolveDataDir returns a local directory for a requested data path.
// Local paths pass through; s3:// paths are downloaded and, for zip
// archives, unpacked into a temp directory the caller should remove.
func ResolveDataDir(ctx context.Context, dataPath string) (string, *log.Status) {
	if !IsS3Path(dataPath) {
		return dataPath, nil
	}
	tempDir, err := os.MkdirTemp(os.Getenv(`SPEECH_FEATURE_TMP`), `speech_input_`)
	if err != nil {
		return ``, log.Error(ctx, 500, err, `Error creating temp directory`)
	}
	localPath := filepath.Join(tempDir, filepath.Base(dataPath))
	status := DownloadFile(ctx, dataPath, localPath)
	if status != nil {
		return ``, status
	}
	if strings.HasSuffix(localPath, `.zip`) {
		status = zip.Unzip(ctx, localPath, tempDir)
		if status != nil {
			return ``, status
		}
	}
	return tempDir, nil
}

// DownloadFile copies one s3://bucket/key object to a local path.
func DownloadFile(ctx context.Context, s3Path string, outputPath string) *log.Status {
	bucket, key, status := parseS3Path(ctx, s3Path)
	if status != nil {
		return status
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(`us-west-2`))
	if err != nil {
		return log.Error(ctx, 500, err, `Error loading AWS config.`)
	}
	client := s3.NewFromConfig(cfg)
	response, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return log.Error(ctx, 500, err, `Error downloading object`, s3Path)
	}
	defer response.Body.Close()
	file, err := os.Create(outputPath)
	if err != nil {
		return log.Error(ctx, 500, err, `Error creating download target`, outputPath)
	}
	defer file.Close()
	_, err = io.Copy(file, response.Body)
	if err != nil {
		return log.Error(ctx, 500, err, `Error writing download target`, outputPath)
	}
	return nil
}

func parseS3Path(ctx context.Context, s3Path string) (string, string, *log.Status) {
	trimmed := strings.TrimPrefix(s3Path, `s3://`)
	bucket, key, found := strings.Cut(trimmed, `/`)
	if !found || bucket == `` || key == `` {
		return ``, ``, log.ErrorNoErr(ctx, 400, `Malformed s3 path`, s3Path)
	}
	return bucket, key, nil
}
