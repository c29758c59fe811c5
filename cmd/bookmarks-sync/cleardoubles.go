package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastanaron/bookmarks-sync/internal/commands"
)

var clearDoublesCmd = &cobra.Command{
	Use:   "clear-doubles",
	Short: "Tombstone LOCAL bookmarks that duplicate an earlier URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := commands.NewClearDoublesCommand(store).Execute(); err != nil {
			return fmt.Errorf("clear-doubles failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearDoublesCmd)
}
