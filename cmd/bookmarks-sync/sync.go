package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dastanaron/bookmarks-sync/internal/commands"
	"github.com/dastanaron/bookmarks-sync/internal/logging"
	"github.com/dastanaron/bookmarks-sync/internal/uploader"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one merge-and-upload pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		log, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer log.Sync()

		client := &http.Client{Timeout: time.Duration(cfg.Uploader.TimeoutSeconds) * time.Second}
		up := uploader.NewHTTPUploader(cfg.Uploader.Endpoint, client)

		return commands.NewSyncCommand(store, up, log).Execute()
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
