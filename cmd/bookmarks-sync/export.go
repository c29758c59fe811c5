package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastanaron/bookmarks-sync/internal/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export MIRROR as a Netscape bookmark HTML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := commands.NewExportCommand(store).Execute(args[0]); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
