package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vessfm/logger"
	"vessfm/model"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// CreatePlaylistRequest represents the playlist creation body.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePlaylistHandler creates a playlist for the authenticated user.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Playlist name is required", http.StatusBadRequest)
		return
	}

	playlist := &model.Playlist{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.playlistRepo.Create(r.Context(), playlist); err != nil {
		logger.Error("failed to create playlist", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, playlist)
}

// GetPlaylistsHandler lists the authenticated user's playlists.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlists, err := h.playlistRepo.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list playlists", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, playlists)
}

// loadOwnedPlaylist fetches a playlist and verifies it belongs to userID.
// Writes the error response and returns nil when it doesn't; a foreign
// playlist looks the same as a missing one.
func (h *APIHandler) loadOwnedPlaylist(w http.ResponseWriter, r *http.Request, id, userID int64) *model.Playlist {
	playlist, err := h.playlistRepo.GetByID(r.Context(), id)
	if err != nil {
		logger.Error("failed to get playlist", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	if playlist == nil || playlist.UserID != userID {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return nil
	}
	return playlist
}

// GetPlaylistHandler returns a playlist with its track links.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}

	playlist := h.loadOwnedPlaylist(w, r, id, userID)
	if playlist == nil {
		return
	}
	respondJSON(w, http.StatusOK, playlist)
}

// PlaylistTrackRequest carries a track id to add or remove.
type PlaylistTrackRequest struct {
	TrackID int64 `json:"trackId"`
}

// AddPlaylistTrackHandler appends a track to a playlist owned by the
// authenticated user.
func (h *APIHandler) AddPlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}
	if h.loadOwnedPlaylist(w, r, playlistID, userID) == nil {
		return
	}

	var req PlaylistTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TrackID == 0 {
		http.Error(w, "trackId is required", http.StatusBadRequest)
		return
	}

	if err := h.playlistRepo.AddTrack(r.Context(), playlistID, req.TrackID); err != nil {
		logger.Error("failed to add track to playlist",
			logger.Int64("playlistId", playlistID),
			logger.Int64("trackId", req.TrackID),
			logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemovePlaylistTrackHandler removes a track from a playlist owned by the
// authenticated user.
func (h *APIHandler) RemovePlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	playlistID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}
	trackID, err := strconv.ParseInt(vars["trackId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid track id", http.StatusBadRequest)
		return
	}
	if h.loadOwnedPlaylist(w, r, playlistID, userID) == nil {
		return
	}

	if err := h.playlistRepo.RemoveTrack(r.Context(), playlistID, trackID); err != nil {
		logger.Error("failed to remove track from playlist", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePlaylistHandler deletes a playlist owned by the authenticated user.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}

	if err := h.playlistRepo.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Playlist not found or not owned by you", http.StatusNotFound)
			return
		}
		logger.Error("failed to delete playlist", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
