package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastanaron/bookmarks-sync/internal/commands"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import a Netscape bookmark HTML file into LOCAL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := commands.NewImportCommand(store).Execute(args[0]); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
