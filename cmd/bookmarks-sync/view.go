package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastanaron/bookmarks-sync/internal/logging"
	"github.com/dastanaron/bookmarks-sync/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse LOCAL/MIRROR/REMOTE and a dry-run MERGED tree side by side",
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

		if err := ui.NewApp(store, log).Run(); err != nil {
			return fmt.Errorf("viewer failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
