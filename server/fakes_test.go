package server

import (
	"context"

	"vessfm/model"
)

// In-memory repository fakes for handler tests.

type fakePlaylistRepo struct {
	nextID    int64
	playlists map[int64]*model.Playlist
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: make(map[int64]*model.Playlist)}
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist *model.Playlist) error {
	r.nextID++
	playlist.ID = r.nextID
	r.playlists[playlist.ID] = playlist
	return nil
}

func (r *fakePlaylistRepo) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	return r.playlists[id], nil
}

func (r *fakePlaylistRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	out := make([]*model.Playlist, 0)
	for _, p := range r.playlists {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) AddTrack(ctx context.Context, playlistID, trackID int64) error {
	p := r.playlists[playlistID]
	p.Tracks = append(p.Tracks, model.PlaylistTrack{
		PlaylistID: playlistID,
		TrackID:    trackID,
		Position:   len(p.Tracks),
	})
	return nil
}

func (r *fakePlaylistRepo) RemoveTrack(ctx context.Context, playlistID, trackID int64) error {
	p := r.playlists[playlistID]
	kept := p.Tracks[:0]
	for _, link := range p.Tracks {
		if link.TrackID != trackID {
			kept = append(kept, link)
		}
	}
	p.Tracks = kept
	return nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, id, userID int64) error {
	delete(r.playlists, id)
	return nil
}

type fakeAlbumRepo struct {
	nextID int64
	albums map[int64]*model.Album
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{albums: make(map[int64]*model.Album)}
}

func (r *fakeAlbumRepo) FindByTitleAndArtist(ctx context.Context, title string, artistID int64) (*model.Album, error) {
	for _, a := range r.albums {
		if a.Title == title && a.ArtistID == artistID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAlbumRepo) Create(ctx context.Context, album *model.Album) (*model.Album, error) {
	r.nextID++
	album.ID = r.nextID
	r.albums[album.ID] = album
	return album, nil
}

func (r *fakeAlbumRepo) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	return r.albums[id], nil
}

func (r *fakeAlbumRepo) List(ctx context.Context, limit, offset int) ([]*model.Album, error) {
	return nil, nil
}

func (r *fakeAlbumRepo) GetAlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error) {
	return nil, nil
}

func (r *fakeAlbumRepo) Update(ctx context.Context, album *model.Album) error {
	r.albums[album.ID] = album
	return nil
}

func (r *fakeAlbumRepo) Delete(ctx context.Context, id, userID int64) error {
	delete(r.albums, id)
	return nil
}
