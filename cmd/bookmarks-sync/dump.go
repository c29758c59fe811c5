package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dastanaron/bookmarks-sync/internal/commands"
	"github.com/dastanaron/bookmarks-sync/internal/logging"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dry-run the merger and print the resulting MergedTree",
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

		if err := commands.NewDumpCommand(store, log).Execute(os.Stdout); err != nil {
			return fmt.Errorf("dump failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
