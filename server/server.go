package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vessfm/cache"
	"vessfm/config"
	"vessfm/core/auth"
	"vessfm/core/ingest"
	"vessfm/db"
	"vessfm/logger"
	"vessfm/model"
	"vessfm/repository"
	"vessfm/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server plus the ingest
// worker pool until interrupted.
func Start(cfg *config.Config) {
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(cfg); err != nil {
		logger.Fatal("failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect GORM database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.Playlist{}, &model.PlaylistTrack{}); err != nil {
		logger.Fatal("failed to migrate playlist models", logger.ErrorField(err))
	}

	// Redis is an accelerator only; start without it when unavailable.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, resolver cache disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	ensureDirExists(cfg.MusicDir)
	ensureDirExists(cfg.MusicImageDir)

	coverStore, err := buildCoverStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize cover storage", logger.ErrorField(err))
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	artistRepo := repository.NewMySQLArtistRepository(db.DB)
	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	trackRepo := repository.NewMySQLTrackRepository(db.DB)
	playlistRepo := repository.NewGormPlaylistRepository(db.GormDB)

	resolverCache := cache.NewResolverCache(db.RedisClient, time.Hour)
	resolver := ingest.NewResolver(artistRepo, albumRepo, resolverCache)
	artwork := ingest.NewArtworkExtractor(coverStore)
	assembler := ingest.NewAssembler(resolver, artwork, trackRepo)
	reader := ingest.NewTagReader(ingest.NewDurationProber(cfg.FFprobePath))

	hub := ingest.NewEventHub()
	runner := ingest.NewRunner(reader, assembler, hub, cfg.IngestWorkers, cfg.IngestQueueSize, cfg.SystemUserID)
	runner.Start()
	defer runner.Stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	apiHandler := NewAPIHandler(userRepo, artistRepo, albumRepo, trackRepo, playlistRepo, runner, hub, tokens, cfg)

	router := buildRouter(apiHandler, cfg)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", logger.ErrorField(err))
	}
}

func buildRouter(h *APIHandler, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Auth
	router.HandleFunc("/api/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)

	// Upload + ingest events
	router.HandleFunc("/api/upload", h.AuthMiddleware(h.UploadTracksHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/ingest/events", h.IngestEventsHandler).Methods(http.MethodGet)

	// Tracks
	router.HandleFunc("/api/tracks", h.AuthMiddleware(h.GetTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", h.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", h.AuthMiddleware(h.DeleteTrackHandler)).Methods(http.MethodDelete)

	// Artists
	router.HandleFunc("/api/artists", h.GetArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}", h.GetArtistHandler).Methods(http.MethodGet)

	// Albums
	router.HandleFunc("/api/albums", h.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", h.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", h.AuthMiddleware(h.UpdateAlbumHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/albums/{id}", h.AuthMiddleware(h.DeleteAlbumHandler)).Methods(http.MethodDelete)

	// Playlists
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/tracks", h.AuthMiddleware(h.AddPlaylistTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/tracks/{trackId}", h.AuthMiddleware(h.RemovePlaylistTrackHandler)).Methods(http.MethodDelete)

	// Library files (covers, audio) served statically.
	router.PathPrefix("/library/").Handler(
		http.StripPrefix("/library/", http.FileServer(http.Dir(cfg.LibraryDir))))

	return router
}

// buildCoverStore selects the artwork backend from configuration.
func buildCoverStore(cfg *config.Config) (storage.CoverStore, error) {
	if cfg.CoverStorage == "minio" {
		return storage.NewMinioCoverStore(cfg, "covers")
	}
	return storage.NewLocalCoverStore(cfg.AlbumImageDir, "/library/images/album_image")
}

func ensureDirExists(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Fatal("failed to create directory", logger.String("dir", dir), logger.ErrorField(err))
	}
}
