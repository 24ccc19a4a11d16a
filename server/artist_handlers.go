package server

import (
	"net/http"
	"strconv"

	"vessfm/logger"

	"github.com/gorilla/mux"
)

// GetArtistsHandler lists artists.
func (h *APIHandler) GetArtistsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 100)

	artists, err := h.artistRepo.List(r.Context(), limit, offset)
	if err != nil {
		logger.Error("failed to list artists", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, artists)
}

// GetArtistHandler returns a single artist by id.
func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}

	artist, err := h.artistRepo.GetByID(r.Context(), id)
	if err != nil {
		logger.Error("failed to get artist", logger.Int64("id", id), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if artist == nil {
		http.Error(w, "Artist not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, artist)
}

func paginationParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
