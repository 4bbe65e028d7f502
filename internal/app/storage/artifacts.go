package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArtifactStore holds job work products (rendered videos, exported
// transcripts) in object storage.
type ArtifactStore interface {
	UploadFile(ctx context.Context, localPath, key string) (url string, err error)
	UploadText(ctx context.Context, key, text string) (url string, err error)
}

// MinioConfig configures the MinIO-backed store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArtifactStore implements ArtifactStore on MinIO.
type MinioArtifactStore struct {
	client *minio.Client
	bucket string
	useSSL bool
	host   string
}

// NewMinioArtifactStore connects to MinIO and ensures the bucket exists.
func NewMinioArtifactStore(ctx context.Context, cfg MinioConfig) (*MinioArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioArtifactStore{
		client: client,
		bucket: cfg.Bucket,
		useSSL: cfg.UseSSL,
		host:   cfg.Endpoint,
	}, nil
}

// UploadFile stores a local file under key and returns its URL.
func (s *MinioArtifactStore) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	return s.objectURL(key), nil
}

// UploadText stores a text blob under key and returns its URL.
func (s *MinioArtifactStore) UploadText(ctx context.Context, key, text string) (string, error) {
	reader := strings.NewReader(text)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	return s.objectURL(key), nil
}

func (s *MinioArtifactStore) objectURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.host, s.bucket, key)
}
