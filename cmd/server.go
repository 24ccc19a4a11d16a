package cmd

import (
	"vessfm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the vessfm HTTP server",
	Long:  `Start the vessfm HTTP server: upload API, catalog API, and the background ingestion worker pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
