package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dastanaron/bookmarks-sync/internal/parser"
	"github.com/dastanaron/bookmarks-sync/internal/storage"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// ExportCommand renders MIRROR, the last-synced merged state, as a
// Netscape bookmark HTML file.
type ExportCommand struct {
	store *storage.Store
}

// NewExportCommand creates a new export command.
func NewExportCommand(store *storage.Store) *ExportCommand {
	return &ExportCommand{store: store}
}

var rootFolderNames = map[syncids.GUID]string{
	syncids.MenuGUID:    "Bookmarks Menu",
	syncids.ToolbarGUID: "Bookmarks Toolbar",
	syncids.UnfiledGUID: "Other Bookmarks",
	syncids.MobileGUID:  "Mobile Bookmarks",
}

// Execute writes every live record of MIRROR to filePath.
func (c *ExportCommand) Execute(filePath string) error {
	ctx := context.Background()

	records, children, err := c.store.ReadTree(ctx, "mirror")
	if err != nil {
		return fmt.Errorf("reading mirror tree: %w", err)
	}

	for guid, name := range rootFolderNames {
		if _, ok := records[guid]; !ok {
			records[guid] = syncids.Record{GUID: guid, Type: syncids.TypeFolder, FolderName: &name}
		}
	}
	children[syncids.RootGUID] = syncids.CanonicalRootChildren

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	if err := parser.Render(file, syncids.RootGUID, children, records); err != nil {
		return fmt.Errorf("rendering bookmark HTML: %w", err)
	}

	fmt.Printf("Exported %d record(s) to %s\n", len(records), filePath)
	return nil
}
