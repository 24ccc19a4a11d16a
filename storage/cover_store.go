package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// CoverStore persists raw cover image bytes and returns a stable reference
// path that can be stored on catalog entries and served back to clients.
type CoverStore interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

// LocalCoverStore writes covers into a directory on local disk. Filenames
// are random, so concurrent writes never collide.
type LocalCoverStore struct {
	dir     string
	baseURL string
}

// NewLocalCoverStore creates a local cover store writing into dir. Returned
// references are baseURL + "/" + filename.
func NewLocalCoverStore(dir, baseURL string) (*LocalCoverStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory %s: %w", dir, err)
	}
	return &LocalCoverStore{dir: dir, baseURL: baseURL}, nil
}

// Save writes the image bytes under a random filename.
func (s *LocalCoverStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	filename := coverFilename(ext)
	target := filepath.Join(s.dir, filename)

	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover file %s: %w", target, err)
	}
	return path.Join(s.baseURL, filename), nil
}

// coverFilename builds a collision-free filename for a cover image.
func coverFilename(ext string) string {
	if ext == "" {
		ext = "png"
	}
	return uuid.New().String() + "." + ext
}
