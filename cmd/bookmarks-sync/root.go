package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dastanaron/bookmarks-sync/internal/config"
	"github.com/dastanaron/bookmarks-sync/internal/logging"
	"github.com/dastanaron/bookmarks-sync/internal/storage"
)

// rootCmd is the base command when bookmarks-sync is invoked with no
// subcommand. Grounded on momlesstomato-asset-manager's cmd/root.go:
// SilenceUsage/SilenceErrors plus a zap-logged Execute() failure path.
var rootCmd = &cobra.Command{
	Use:           "bookmarks-sync",
	Short:         "Three-way bookmark tree merger",
	Long:          `bookmarks-sync reconciles a local bookmark tree against its last-synced mirror and an incoming remote snapshot, the way Firefox Sync's bookmark engine does.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory to load .env from")
}

// Execute runs the root command, logging any returned error through a
// console-formatted zap logger before exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		l, logErr := logging.New(logging.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// openStore loads config from configDir and opens the SQLite store that
// the environment, the .env file or the default path points at.
func openStore() (*storage.Store, *config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database at %s: %w", cfg.Storage.Path, err)
	}
	return store, cfg, nil
}
