package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"vessfm/logger"
	"vessfm/model"

	"github.com/gorilla/mux"
)

// GetAlbumsHandler lists albums.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 100)

	albums, err := h.albumRepo.List(r.Context(), limit, offset)
	if err != nil {
		logger.Error("failed to list albums", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

// GetAlbumHandler returns an album with its tracks.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	album, err := h.albumRepo.GetByID(r.Context(), id)
	if err != nil {
		logger.Error("failed to get album", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if album == nil {
		http.Error(w, "Album not found", http.StatusNotFound)
		return
	}

	tracks, err := h.albumRepo.GetAlbumTracks(r.Context(), id)
	if err != nil {
		logger.Error("failed to get album tracks", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, model.AlbumWithTracks{Album: *album, Tracks: tracks})
}

// UpdateAlbumRequest carries the mutable album fields. Empty fields keep
// their current value.
type UpdateAlbumRequest struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate"` // YYYY-MM-DD
	CoverPath   string `json:"coverPath"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// UpdateAlbumHandler updates an album owned by the authenticated user.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	var req UpdateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	album, err := h.albumRepo.GetByID(r.Context(), id)
	if err != nil {
		logger.Error("failed to get album", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if album == nil || album.UserID != userID {
		http.Error(w, "Album not found", http.StatusNotFound)
		return
	}

	if req.Title != "" {
		album.Title = req.Title
	}
	if req.ReleaseDate != "" {
		release, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			http.Error(w, "Invalid release date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		album.ReleaseDate = release
	}
	if req.CoverPath != "" {
		album.CoverPath = req.CoverPath
	}
	if req.Genre != "" {
		album.Genre = req.Genre
	}
	if req.Description != "" {
		album.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := h.albumRepo.Update(r.Context(), album); err != nil {
		logger.Error("failed to update album", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// DeleteAlbumHandler deletes an album owned by the authenticated user.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	if err := h.albumRepo.Delete(r.Context(), id, userID); err != nil {
		logger.Error("failed to delete album", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
