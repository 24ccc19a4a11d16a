package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"vessfm/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioCoverStore persists covers as objects in a MinIO bucket.
type MinioCoverStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioCoverStore connects to MinIO and makes sure the bucket exists.
func NewMinioCoverStore(cfg *config.Config, prefix string) (*MinioCoverStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
	}

	return &MinioCoverStore{
		client: client,
		bucket: cfg.MinioBucket,
		prefix: prefix,
	}, nil
}

// Save uploads the image bytes under a random object key.
func (s *MinioCoverStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	key := path.Join(s.prefix, coverFilename(ext))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypeForExt(ext)})
	if err != nil {
		return "", fmt.Errorf("failed to upload cover %s: %w", key, err)
	}
	return "/" + path.Join(s.bucket, key), nil
}

func contentTypeForExt(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
