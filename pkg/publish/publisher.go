package publish

import (
	"bytes"
	"context"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/omm-dev/omm/internal/config"
	"github.com/omm-dev/omm/internal/errors"
)

// ObjectPutter is the slice of the S3 API the publisher needs.
// *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes a completed publish run.
type Result struct {
	// Bucket is the destination bucket.
	Bucket string

	// Uploaded are the object keys written, in upload order.
	Uploaded []string

	// Bytes is the total payload size uploaded.
	Bytes int64

	// Duration is how long the publish took.
	Duration time.Duration
}

// Publisher uploads build output to S3.
type Publisher struct {
	api    ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates a publisher from the project's publish configuration.
// It fails when no bucket is configured.
func New(api ObjectPutter, cfg config.PublishConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("E501")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		api:    api,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}, nil
}

// Publish uploads every file under dir. Keys mirror the directory
// layout below dir, under the configured prefix. The first failed
// upload aborts the run.
func (p *Publisher) Publish(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()
	result := &Result{Bucket: p.bucket}

	files, err := collectFiles(dir)
	if err != nil {
		return nil, errors.FromError(err, "E502").WithPath(dir, "")
	}

	for _, file := range files {
		key := p.keyFor(dir, file)

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.FromError(err, "E502").WithPath(file, "")
		}

		_, err = p.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(file)),
		})
		if err != nil {
			return nil, errors.FromError(err, "E502").
				WithPath(file, "").
				WithDetail("uploading " + key + " to " + p.bucket)
		}

		p.logger.Info("uploaded", "key", key, "bytes", len(data))
		result.Uploaded = append(result.Uploaded, key)
		result.Bytes += int64(len(data))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// keyFor maps an absolute file path to its object key.
func (p *Publisher) keyFor(dir, file string) string {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	key := filepath.ToSlash(rel)
	if p.prefix != "" {
		key = path.Join(p.prefix, key)
	}
	return key
}

// collectFiles returns every regular file under dir, sorted by the
// deterministic walk order.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// contentType infers the MIME type from the file extension.
func contentType(file string) string {
	ext := strings.ToLower(filepath.Ext(file))
	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
