package ingest

import (
	"context"
	"fmt"

	"vessfm/storage"
)

// ArtworkExtractor persists embedded cover image bytes to the configured
// cover store and returns a stable reference.
type ArtworkExtractor struct {
	store storage.CoverStore
}

// NewArtworkExtractor creates an artwork extractor.
func NewArtworkExtractor(store storage.CoverStore) *ArtworkExtractor {
	return &ArtworkExtractor{store: store}
}

// Persist writes the image bytes and returns their reference. Callers must
// not invoke it with empty data. Failures wrap ErrStorageWrite so the
// assembler can recover and continue without a cover.
func (e *ArtworkExtractor) Persist(ctx context.Context, data []byte, ext string) (string, error) {
	ref, err := e.store.Save(ctx, data, ext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return ref, nil
}
