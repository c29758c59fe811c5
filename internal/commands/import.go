package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dastanaron/bookmarks-sync/internal/parser"
	"github.com/dastanaron/bookmarks-sync/internal/storage"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// ImportCommand parses a Netscape bookmark HTML file and seeds LOCAL
// with it, under a freshly minted folder parented to unfiled_____.
type ImportCommand struct {
	store *storage.Store
}

// NewImportCommand creates a new import command.
func NewImportCommand(store *storage.Store) *ImportCommand {
	return &ImportCommand{store: store}
}

// Execute imports bookmarks from filePath into bookmarks_local with
// sync_status=new, so the next sync pass folds them into MIRROR through
// the real three-way merger.
func (c *ImportCommand) Execute(filePath string) error {
	ctx := context.Background()

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	parsed, err := parser.Parse(file, "Imported Bookmarks")
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	_, localChildren, err := c.store.ReadTree(ctx, "local")
	if err != nil {
		return fmt.Errorf("reading existing local tree: %w", err)
	}
	parsed.Structure = append(parsed.Structure, tree.StructureRow{
		Parent: syncids.UnfiledGUID,
		Child:  parsed.RootGUID,
		Index:  len(localChildren[syncids.UnfiledGUID]),
	})

	if err := c.store.WriteLocal(ctx, parsed.Records, parsed.Structure, syncids.StatusNew); err != nil {
		return fmt.Errorf("writing local tree: %w", err)
	}

	fmt.Printf("Imported %d record(s) under a new folder; run sync to merge them upstream.\n", len(parsed.Records))
	return nil
}
