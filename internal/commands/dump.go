package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dastanaron/bookmarks-sync/internal/merge"
	"github.com/dastanaron/bookmarks-sync/internal/storage"
)

// DumpCommand runs a dry-run merge of LOCAL/MIRROR/BUFFER and prints the
// resulting MergedTree without writing anything back.
type DumpCommand struct {
	store *storage.Store
	log   *zap.Logger
}

// NewDumpCommand creates a new dump command.
func NewDumpCommand(store *storage.Store, log *zap.Logger) *DumpCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &DumpCommand{store: store, log: log}
}

// Execute writes an indented MergedTree dump to w.
func (c *DumpCommand) Execute(w io.Writer) error {
	ctx := context.Background()

	local, err := c.store.LoadLocal(ctx)
	if err != nil {
		return fmt.Errorf("loading local tree: %w", err)
	}
	mirror, err := c.store.LoadMirror(ctx)
	if err != nil {
		return fmt.Errorf("loading mirror tree: %w", err)
	}
	remote, err := c.store.LoadBuffer(ctx)
	if err != nil {
		return fmt.Errorf("loading buffer tree: %w", err)
	}

	merged, err := merge.Merge(ctx, local, mirror, remote, c.store.Sources(), c.log)
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}

	return merged.Dump(w)
}
