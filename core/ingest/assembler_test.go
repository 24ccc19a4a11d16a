package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"vessfm/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assemblerFixture struct {
	artists   *fakeArtistRepo
	albums    *fakeAlbumRepo
	tracks    *fakeTrackRepo
	store     *fakeCoverStore
	assembler *Assembler
}

func newAssemblerFixture() *assemblerFixture {
	f := &assemblerFixture{
		artists: newFakeArtistRepo(),
		albums:  newFakeAlbumRepo(),
		tracks:  newFakeTrackRepo(),
		store:   &fakeCoverStore{},
	}
	resolver := NewResolver(f.artists, f.albums, nil)
	f.assembler = NewAssembler(resolver, NewArtworkExtractor(f.store), f.tracks)
	return f
}

func TestAssembleFullTagBag(t *testing.T) {
	f := newAssemblerFixture()

	bag := testBag("Song One", "Band X", "Album Y")
	bag.Picture = []byte{0x89, 0x50, 0x4e, 0x47}
	bag.PictureExt = "png"
	bag.TrackNumber = 3

	track, err := f.assembler.Assemble(context.Background(), bag, "/music/song-one.mp3", "", 1)
	require.NoError(t, err)
	require.NotNil(t, track)

	assert.Equal(t, "Song One", track.Title)
	assert.Equal(t, []int64{1}, track.ArtistIDs)
	assert.True(t, track.AlbumID.Valid)
	assert.Equal(t, 215, track.Duration)
	assert.Equal(t, "/music/song-one.mp3", track.FilePath)
	assert.Equal(t, "/covers/1.png", track.CoverPath, "embedded artwork becomes the track cover")
	assert.True(t, track.TrackNumber.Valid)
	assert.Equal(t, int64(3), track.TrackNumber.Int64)
	assert.Equal(t, time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), track.PublishDate)

	assert.Equal(t, 1, f.artists.count())
	assert.Equal(t, 1, f.albums.count())

	album, err := f.albums.FindByTitleAndArtist(context.Background(), "Album Y", track.ArtistIDs[0])
	require.NoError(t, err)
	require.NotNil(t, album)
	assert.Equal(t, "/covers/1.png", album.CoverPath, "a new album takes the extracted cover")
	assert.Equal(t, track.AlbumID.Int64, album.ID)
}

func TestAssembleMultipleArtistsInOrder(t *testing.T) {
	f := newAssemblerFixture()

	bag := &model.TagBag{
		Title:   "Collab",
		Artists: []string{"Band X", "Band Z"},
		Genre:   "Rock",
		RawDate: "1994",
	}

	track, err := f.assembler.Assemble(context.Background(), bag, "/music/collab.flac", "", 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, track.ArtistIDs, "artist links keep tag order")
	assert.False(t, track.AlbumID.Valid, "no album tag means no album")
	assert.Equal(t, 0, f.albums.count())
	assert.Equal(t, 1994, track.PublishDate.Year())
}

func TestAssembleDeduplicatesArtistLinks(t *testing.T) {
	f := newAssemblerFixture()

	bag := &model.TagBag{
		Title:   "Echo",
		Artists: []string{"Band X", "Band X", "Band Z"},
		Genre:   "Rock",
		RawDate: "2020",
	}

	track, err := f.assembler.Assemble(context.Background(), bag, "/music/echo.mp3", "", 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, track.ArtistIDs, "a repeated name yields one link")
	assert.Equal(t, 2, f.artists.count())
}

func TestAssembleWithoutArtworkLeavesCoverEmpty(t *testing.T) {
	f := newAssemblerFixture()

	bag := testBag("Plain", "Band X", "")
	track, err := f.assembler.Assemble(context.Background(), bag, "/music/plain.mp3", "", 1)
	require.NoError(t, err)

	assert.Empty(t, track.CoverPath)
	assert.Equal(t, 0, f.store.saveCount())
}

func TestAssembleUploadCoverTakesPrecedence(t *testing.T) {
	f := newAssemblerFixture()

	bag := testBag("Song", "Band X", "Album Y")
	bag.Picture = []byte{1, 2, 3}
	bag.PictureExt = "jpeg"

	track, err := f.assembler.Assemble(context.Background(), bag, "/music/song.mp3", "/uploads/cover.jpg", 1)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/cover.jpg", track.CoverPath)
	assert.Equal(t, 0, f.store.saveCount(), "embedded artwork is skipped when a cover was supplied")

	album, err := f.albums.FindByTitleAndArtist(context.Background(), "Album Y", track.ArtistIDs[0])
	require.NoError(t, err)
	require.NotNil(t, album)
	assert.Equal(t, "/uploads/cover.jpg", album.CoverPath)
}

func TestAssembleInheritsExistingAlbumCover(t *testing.T) {
	f := newAssemblerFixture()
	ctx := context.Background()

	first := testBag("Track 1", "Band X", "Album Y")
	first.Picture = []byte{1, 2, 3}
	first.PictureExt = "png"
	_, err := f.assembler.Assemble(ctx, first, "/music/t1.mp3", "", 1)
	require.NoError(t, err)

	second := testBag("Track 2", "Band X", "Album Y")
	track, err := f.assembler.Assemble(ctx, second, "/music/t2.mp3", "", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.albums.count())
	assert.Equal(t, "/covers/1.png", track.CoverPath, "coverless track falls back to the album cover")
}

func TestAssembleSurvivesArtworkFailure(t *testing.T) {
	f := newAssemblerFixture()
	f.store.err = errors.New("disk full")

	bag := testBag("Song", "Band X", "Album Y")
	bag.Picture = []byte{1, 2, 3}
	bag.PictureExt = "png"

	track, err := f.assembler.Assemble(context.Background(), bag, "/music/song.mp3", "", 1)
	require.NoError(t, err, "a failed artwork write must not fail the ingestion")

	assert.Empty(t, track.CoverPath)
	assert.True(t, track.AlbumID.Valid)
	assert.Len(t, f.tracks.all(), 1)
}

func TestAssembleSameFileTwiceCreatesTwoTracks(t *testing.T) {
	f := newAssemblerFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		bag := testBag("Song", "Band X", "Album Y")
		_, err := f.assembler.Assemble(ctx, bag, "/music/song.mp3", "", 1)
		require.NoError(t, err)
	}

	assert.Len(t, f.tracks.all(), 2, "re-ingesting a file is not deduplicated")
	assert.Equal(t, 1, f.artists.count())
	assert.Equal(t, 1, f.albums.count())
}

func TestAssembleTrackCreateFailurePropagates(t *testing.T) {
	f := newAssemblerFixture()
	f.tracks.err = errors.New("connection lost")

	bag := testBag("Song", "Band X", "Album Y")
	_, err := f.assembler.Assemble(context.Background(), bag, "/music/song.mp3", "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "song.mp3")

	// Artist and album rows created along the way remain.
	assert.Equal(t, 1, f.artists.count())
	assert.Equal(t, 1, f.albums.count())
}

func TestAssembleOwnerPropagates(t *testing.T) {
	f := newAssemblerFixture()

	bag := testBag("Song", "Band X", "Album Y")
	track, err := f.assembler.Assemble(context.Background(), bag, "/music/song.mp3", "", 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), track.UserID)
	album, err := f.albums.GetByID(context.Background(), track.AlbumID.Int64)
	require.NoError(t, err)
	require.NotNil(t, album)
	assert.Equal(t, int64(42), album.UserID)
}
