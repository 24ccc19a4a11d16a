package cmd

import (
	"fmt"
	"os"

	"vessfm/config"
	"vessfm/logger"
	"vessfm/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vessfm",
	Short: "vessfm is a self-hosted music library service.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(loadConfig())
	},
}

// loadConfig loads configuration and initializes logging for any command.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})
	return cfg
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
