package ingest

import (
	"context"
	"fmt"
	"sync"

	"vessfm/model"
)

// In-memory repository fakes. They mirror the create-or-reuse contract of
// the MySQL implementations: Create under an already-taken identity key
// returns the existing row instead of an error.

type fakeArtistRepo struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]*model.Artist
	inserts int
}

func newFakeArtistRepo() *fakeArtistRepo {
	return &fakeArtistRepo{byName: make(map[string]*model.Artist)}
}

func (r *fakeArtistRepo) FindByName(ctx context.Context, name string) (*model.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[name], nil
}

func (r *fakeArtistRepo) Create(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byName[artist.Name]; ok {
		return existing, nil
	}
	r.nextID++
	artist.ID = r.nextID
	r.byName[artist.Name] = artist
	r.inserts++
	return artist, nil
}

func (r *fakeArtistRepo) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, artist := range r.byName {
		if artist.ID == id {
			return artist, nil
		}
	}
	return nil, nil
}

func (r *fakeArtistRepo) List(ctx context.Context, limit, offset int) ([]*model.Artist, error) {
	return nil, nil
}

func (r *fakeArtistRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

type albumKey struct {
	artistID int64
	title    string
}

type fakeAlbumRepo struct {
	mu      sync.Mutex
	nextID  int64
	byKey   map[albumKey]*model.Album
	inserts int
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{byKey: make(map[albumKey]*model.Album)}
}

func (r *fakeAlbumRepo) FindByTitleAndArtist(ctx context.Context, title string, artistID int64) (*model.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[albumKey{artistID, title}], nil
}

func (r *fakeAlbumRepo) Create(ctx context.Context, album *model.Album) (*model.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := albumKey{album.ArtistID, album.Title}
	if existing, ok := r.byKey[key]; ok {
		return existing, nil
	}
	r.nextID++
	album.ID = r.nextID
	r.byKey[key] = album
	r.inserts++
	return album, nil
}

func (r *fakeAlbumRepo) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, album := range r.byKey {
		if album.ID == id {
			return album, nil
		}
	}
	return nil, nil
}

func (r *fakeAlbumRepo) List(ctx context.Context, limit, offset int) ([]*model.Album, error) {
	return nil, nil
}

func (r *fakeAlbumRepo) GetAlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error) {
	return nil, nil
}

func (r *fakeAlbumRepo) Update(ctx context.Context, album *model.Album) error { return nil }

func (r *fakeAlbumRepo) Delete(ctx context.Context, id, userID int64) error { return nil }

func (r *fakeAlbumRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

type fakeTrackRepo struct {
	mu     sync.Mutex
	nextID int64
	tracks []*model.Track
	err    error
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{}
}

func (r *fakeTrackRepo) Create(ctx context.Context, track *model.Track) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	track.ID = r.nextID
	r.tracks = append(r.tracks, track)
	return track.ID, nil
}

func (r *fakeTrackRepo) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, track := range r.tracks {
		if track.ID == id {
			return track, nil
		}
	}
	return nil, nil
}

func (r *fakeTrackRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Track, error) {
	return nil, nil
}

func (r *fakeTrackRepo) Delete(ctx context.Context, id, userID int64) error { return nil }

func (r *fakeTrackRepo) all() []*model.Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Track, len(r.tracks))
	copy(out, r.tracks)
	return out
}

// fakeCoverStore records saved covers and hands out deterministic refs.
type fakeCoverStore struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (s *fakeCoverStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saves++
	return fmt.Sprintf("/covers/%d.%s", s.saves, ext), nil
}

func (s *fakeCoverStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeExtractor serves canned tag bags keyed by file path.
type fakeExtractor struct {
	mu   sync.Mutex
	bags map[string]*model.TagBag
	errs map[string]error
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{bags: make(map[string]*model.TagBag), errs: make(map[string]error)}
}

func (e *fakeExtractor) Extract(ctx context.Context, path string) (*model.TagBag, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err, ok := e.errs[path]; ok {
		return nil, err
	}
	if bag, ok := e.bags[path]; ok {
		copied := *bag
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: %s: no canned bag", ErrUnreadableMedia, path)
}

func testBag(title, artist, album string) *model.TagBag {
	return &model.TagBag{
		Title:       title,
		Artists:     []string{artist},
		Album:       album,
		AlbumArtist: artist,
		Genre:       "Rock",
		RawDate:     "2023-05-10",
		Duration:    215,
	}
}
