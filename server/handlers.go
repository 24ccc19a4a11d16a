package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"vessfm/config"
	"vessfm/core/auth"
	"vessfm/core/ingest"
	"vessfm/logger"
	"vessfm/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo     repository.UserRepository
	artistRepo   repository.ArtistRepository
	albumRepo    repository.AlbumRepository
	trackRepo    repository.TrackRepository
	playlistRepo repository.PlaylistRepository
	runner       *ingest.Runner
	hub          *ingest.EventHub
	tokens       *auth.TokenManager
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	artistRepo repository.ArtistRepository,
	albumRepo repository.AlbumRepository,
	trackRepo repository.TrackRepository,
	playlistRepo repository.PlaylistRepository,
	runner *ingest.Runner,
	hub *ingest.EventHub,
	tokens *auth.TokenManager,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		artistRepo:   artistRepo,
		albumRepo:    albumRepo,
		trackRepo:    trackRepo,
		playlistRepo: playlistRepo,
		runner:       runner,
		hub:          hub,
		tokens:       tokens,
		cfg:          cfg,
	}
}

type contextKey string

const userIDContextKey contextKey = "userID"

// AuthMiddleware validates the Bearer token and puts the user id into the
// request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := h.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Warn("token verification failed", logger.ErrorField(err))
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	if !ok {
		return 0, fmt.Errorf("no user id in context")
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", logger.ErrorField(err))
		}
	}
}
