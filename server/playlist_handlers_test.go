package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vessfm/model"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authedRequest builds a request carrying an authenticated user id and mux vars.
func authedRequest(method, target string, body string, userID int64, vars map[string]string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(context.WithValue(req.Context(), userIDContextKey, userID))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func newPlaylistFixture(t *testing.T) (*APIHandler, *fakePlaylistRepo, *model.Playlist) {
	t.Helper()
	repo := newFakePlaylistRepo()
	playlist := &model.Playlist{UserID: 1, Name: "Late Nights"}
	require.NoError(t, repo.Create(context.Background(), playlist))
	return &APIHandler{playlistRepo: repo}, repo, playlist
}

func TestGetPlaylistOwnerOnly(t *testing.T) {
	h, _, playlist := newPlaylistFixture(t)
	vars := map[string]string{"id": "1"}

	rec := httptest.NewRecorder()
	h.GetPlaylistHandler(rec, authedRequest(http.MethodGet, "/api/playlists/1", "", 2, vars))
	assert.Equal(t, http.StatusNotFound, rec.Code, "a foreign playlist reads as missing")

	rec = httptest.NewRecorder()
	h.GetPlaylistHandler(rec, authedRequest(http.MethodGet, "/api/playlists/1", "", playlist.UserID, vars))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddPlaylistTrackOwnerOnly(t *testing.T) {
	h, repo, playlist := newPlaylistFixture(t)
	vars := map[string]string{"id": "1"}
	body := `{"trackId": 7}`

	rec := httptest.NewRecorder()
	h.AddPlaylistTrackHandler(rec, authedRequest(http.MethodPost, "/api/playlists/1/tracks", body, 2, vars))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, repo.playlists[1].Tracks, "a non-owner must not mutate the playlist")

	rec = httptest.NewRecorder()
	h.AddPlaylistTrackHandler(rec, authedRequest(http.MethodPost, "/api/playlists/1/tracks", body, playlist.UserID, vars))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, repo.playlists[1].Tracks, 1)
	assert.Equal(t, int64(7), repo.playlists[1].Tracks[0].TrackID)
}

func TestRemovePlaylistTrackOwnerOnly(t *testing.T) {
	h, repo, playlist := newPlaylistFixture(t)
	require.NoError(t, repo.AddTrack(context.Background(), 1, 7))
	vars := map[string]string{"id": "1", "trackId": "7"}

	rec := httptest.NewRecorder()
	h.RemovePlaylistTrackHandler(rec, authedRequest(http.MethodDelete, "/api/playlists/1/tracks/7", "", 2, vars))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, repo.playlists[1].Tracks, 1, "a non-owner must not mutate the playlist")

	rec = httptest.NewRecorder()
	h.RemovePlaylistTrackHandler(rec, authedRequest(http.MethodDelete, "/api/playlists/1/tracks/7", "", playlist.UserID, vars))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.playlists[1].Tracks)
}
