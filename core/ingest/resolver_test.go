package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"vessfm/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveArtistCreatesOnFirstSight(t *testing.T) {
	artists := newFakeArtistRepo()
	resolver := NewResolver(artists, newFakeAlbumRepo(), nil)

	id, err := resolver.ResolveArtist(context.Background(), "Band X")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, artists.count())
}

func TestResolveArtistReusesExisting(t *testing.T) {
	artists := newFakeArtistRepo()
	resolver := NewResolver(artists, newFakeAlbumRepo(), nil)
	ctx := context.Background()

	first, err := resolver.ResolveArtist(ctx, "Band X")
	require.NoError(t, err)
	second, err := resolver.ResolveArtist(ctx, "Band X")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, artists.count())
	assert.Equal(t, 1, artists.inserts)
}

func TestResolveArtistIsCaseAndNameExact(t *testing.T) {
	artists := newFakeArtistRepo()
	resolver := NewResolver(artists, newFakeAlbumRepo(), nil)
	ctx := context.Background()

	a, err := resolver.ResolveArtist(ctx, "Band X")
	require.NoError(t, err)
	b, err := resolver.ResolveArtist(ctx, "band x")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, artists.count())
}

func TestResolveArtistConcurrentSameName(t *testing.T) {
	artists := newFakeArtistRepo()
	resolver := NewResolver(artists, newFakeAlbumRepo(), nil)

	const n = 16
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := resolver.ResolveArtist(context.Background(), "Band X")
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, artists.count(), "concurrent resolution must create exactly one artist")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestResolveAlbumCreatesWithParams(t *testing.T) {
	albums := newFakeAlbumRepo()
	resolver := NewResolver(newFakeArtistRepo(), albums, nil)

	release := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	album, err := resolver.ResolveAlbum(context.Background(), AlbumParams{
		Title:       "Album Y",
		ArtistID:    7,
		CoverPath:   "/covers/1.png",
		Genre:       "Rock",
		ReleaseDate: release,
		OwnerID:     1,
	})
	require.NoError(t, err)
	require.NotNil(t, album)

	assert.Equal(t, "Album Y", album.Title)
	assert.Equal(t, int64(7), album.ArtistID)
	assert.Equal(t, "/covers/1.png", album.CoverPath)
	assert.Equal(t, release, album.ReleaseDate)
	assert.Equal(t, 1, albums.count())
}

func TestResolveAlbumKeepsStoredCover(t *testing.T) {
	albums := newFakeAlbumRepo()
	resolver := NewResolver(newFakeArtistRepo(), albums, nil)
	ctx := context.Background()

	_, err := albums.Create(ctx, &model.Album{ArtistID: 7, Title: "Album Y", CoverPath: "/covers/original.png"})
	require.NoError(t, err)

	album, err := resolver.ResolveAlbum(ctx, AlbumParams{
		Title:     "Album Y",
		ArtistID:  7,
		CoverPath: "/covers/later.png",
	})
	require.NoError(t, err)
	require.NotNil(t, album)

	assert.Equal(t, "/covers/original.png", album.CoverPath, "existing album keeps its stored cover")
	assert.Equal(t, 1, albums.count())
}

func TestResolveAlbumDistinctPerArtist(t *testing.T) {
	albums := newFakeAlbumRepo()
	resolver := NewResolver(newFakeArtistRepo(), albums, nil)
	ctx := context.Background()

	a, err := resolver.ResolveAlbum(ctx, AlbumParams{Title: "Greatest Hits", ArtistID: 1})
	require.NoError(t, err)
	b, err := resolver.ResolveAlbum(ctx, AlbumParams{Title: "Greatest Hits", ArtistID: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "same title under different artists is a different album")
	assert.Equal(t, 2, albums.count())
}
