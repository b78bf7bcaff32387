// Package publish uploads exported site files to S3-compatible object storage.
package publish

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hyperengineering/folio/internal/config"
	"github.com/hyperengineering/folio/internal/export"
)

// Uploader puts exported files into object storage.
type Uploader interface {
	// Upload stores the file at filePath under the given object key.
	Upload(ctx context.Context, key string, filePath string) error
}

// s3Client abstracts the minio client for testing.
type s3Client interface {
	FPutObject(ctx context.Context, bucket, objectName, filePath, contentType string) error
}

type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) FPutObject(ctx context.Context, bucket, objectName, filePath, contentType string) error {
	_, err := w.client.FPutObject(ctx, bucket, objectName, filePath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// S3Uploader uploads to an S3-compatible bucket.
type S3Uploader struct {
	client s3Client
	bucket string
	prefix string
}

// Upload stores filePath under prefix/key with a content type derived from
// the file extension.
func (u *S3Uploader) Upload(ctx context.Context, key string, filePath string) error {
	objectName := key
	if u.prefix != "" {
		objectName = path.Join(u.prefix, key)
	}
	if err := u.client.FPutObject(ctx, u.bucket, objectName, filePath, contentType(filePath)); err != nil {
		return fmt.Errorf("upload %s to S3: %w", objectName, err)
	}
	return nil
}

var contentTypes = map[string]string{
	".json": "application/json",
	".xml":  "application/xml",
}

func contentType(filePath string) string {
	ext := filepath.Ext(filePath)
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// NoopUploader is used when publishing is not configured.
type NoopUploader struct{}

// Upload does nothing.
func (u *NoopUploader) Upload(ctx context.Context, key string, filePath string) error {
	return nil
}

// NewUploader returns an S3Uploader, or a NoopUploader when no bucket is set.
func NewUploader(cfg config.PublishConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return &NoopUploader{}, nil
	}

	useSSL := true
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Uploader{
		client: &minioClientWrapper{client: client},
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Enabled reports whether u actually uploads.
func Enabled(u Uploader) bool {
	if u == nil {
		return false
	}
	_, noop := u.(*NoopUploader)
	return !noop
}

// Result uploads every file of an export, keyed by file name. It stops at
// the first failure.
func Result(ctx context.Context, u Uploader, res *export.Result) error {
	for _, file := range res.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.Upload(ctx, filepath.Base(file), file); err != nil {
			return err
		}
	}
	return nil
}
