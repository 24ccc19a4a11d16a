package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCoverStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalCoverStore(dir, "/library/images/album_image")
	require.NoError(t, err)

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	ref, err := store.Save(context.Background(), data, "png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "/library/images/album_image/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	written, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestLocalCoverStoreUniqueRefs(t *testing.T) {
	store, err := NewLocalCoverStore(t.TempDir(), "/covers")
	require.NoError(t, err)

	a, err := store.Save(context.Background(), []byte{1}, "jpeg")
	require.NoError(t, err)
	b, err := store.Save(context.Background(), []byte{2}, "jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalCoverStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "covers")
	_, err := NewLocalCoverStore(dir, "/covers")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCoverFilenameDefaultsToPNG(t *testing.T) {
	assert.True(t, strings.HasSuffix(coverFilename(""), ".png"))
	assert.True(t, strings.HasSuffix(coverFilename("jpeg"), ".jpeg"))
}
