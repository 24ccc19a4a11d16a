package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"vessfm/cache"
	"vessfm/core/ingest"
	"vessfm/db"
	"vessfm/logger"
	"vessfm/repository"
	"vessfm/storage"

	"github.com/spf13/cobra"
)

var scanWatch bool

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Ingest every audio file in a directory",
	Long: `Walk a directory and ingest every supported audio file into the catalog.
With --watch the directory is watched afterwards and new files are ingested as they appear.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	// RunE so a failure unwinds through the defers: the runner drains
	// already-queued jobs and the connections close before the process exits.
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		dir := args[0]

		if err := db.ConnectDB(cfg); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.DB.Close()
		if err := db.InitDB(cfg); err != nil {
			return err
		}

		if err := db.ConnectRedis(cfg); err != nil {
			logger.Warn("Redis unavailable, resolver cache disabled", logger.ErrorField(err))
		} else {
			defer db.CloseRedis()
		}

		coverStore, err := storage.NewLocalCoverStore(cfg.AlbumImageDir, "/library/images/album_image")
		if err != nil {
			return fmt.Errorf("initialize cover storage: %w", err)
		}

		artistRepo := repository.NewMySQLArtistRepository(db.DB)
		albumRepo := repository.NewMySQLAlbumRepository(db.DB)
		trackRepo := repository.NewMySQLTrackRepository(db.DB)

		resolver := ingest.NewResolver(artistRepo, albumRepo, cache.NewResolverCache(db.RedisClient, time.Hour))
		assembler := ingest.NewAssembler(resolver, ingest.NewArtworkExtractor(coverStore), trackRepo)
		reader := ingest.NewTagReader(ingest.NewDurationProber(cfg.FFprobePath))

		runner := ingest.NewRunner(reader, assembler, nil, cfg.IngestWorkers, cfg.IngestQueueSize, cfg.SystemUserID)
		runner.Start()
		defer runner.Stop()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		count, err := ingest.ScanDirectory(ctx, runner, dir, cfg.SystemUserID)
		if err != nil {
			logger.Error("scan aborted", logger.ErrorField(err))
			return err
		}
		logger.Info("scan queued", logger.Int("files", count))

		if scanWatch {
			watcher := ingest.NewWatcher(runner, dir, cfg.SystemUserID)
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("watch failed", logger.ErrorField(err))
				return err
			}
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanWatch, "watch", false, "keep watching the directory for new files")
	rootCmd.AddCommand(scanCmd)
}
