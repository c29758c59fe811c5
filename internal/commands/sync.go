package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dastanaron/bookmarks-sync/internal/applier"
	"github.com/dastanaron/bookmarks-sync/internal/storage"
	"github.com/dastanaron/bookmarks-sync/internal/uploader"
)

// SyncCommand runs one applier pass against store, posting upstream
// through up.
type SyncCommand struct {
	store *storage.Store
	up    uploader.Uploader
	log   *zap.Logger
}

// NewSyncCommand creates a new sync command.
func NewSyncCommand(store *storage.Store, up uploader.Uploader, log *zap.Logger) *SyncCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncCommand{store: store, up: up, log: log}
}

// alwaysGreen never aborts a pass; the CLI has no concurrent writer to
// coordinate with, unlike an embedding browser's background sync daemon.
func alwaysGreen(context.Context, applier.Stage) bool { return true }

// Execute runs exactly one sync pass and reports its outcome.
func (c *SyncCommand) Execute() error {
	a := &applier.Applier{
		Trees:    c.store,
		Sources:  c.store.Sources(),
		Uploader: c.up,
		Storage:  c.store,
		Log:      c.log,
	}

	outcome, err := a.RunPass(context.Background(), alwaysGreen)
	if err != nil {
		return fmt.Errorf("sync pass failed: %w", err)
	}

	switch outcome.Outcome {
	case applier.OutcomeNoOp:
		fmt.Println("Sync pass found nothing to merge.")
	case applier.OutcomeAborted:
		fmt.Println("Sync pass aborted before any write.")
	case applier.OutcomeCommitted:
		fmt.Printf("Sync pass committed: %d record(s) posted upstream.\n", len(outcome.Result.Upstream.Records))
	}
	return nil
}
