package commands

import (
	"context"
	"fmt"

	"github.com/dastanaron/bookmarks-sync/internal/storage"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// ClearDoublesCommand tombstones duplicate LOCAL bookmarks that share a
// URL, keeping whichever was seen first. It is the CLI-level sibling of
// the merger's own hasDupe/sameAs folder dedup: both apply "first
// occurrence wins" to content the user never asked to keep twice.
type ClearDoublesCommand struct {
	store *storage.Store
}

// NewClearDoublesCommand creates a new clear-doubles command.
func NewClearDoublesCommand(store *storage.Store) *ClearDoublesCommand {
	return &ClearDoublesCommand{store: store}
}

// Execute tombstones every LOCAL bookmark whose URL was already seen by
// an earlier one, in tree order.
func (c *ClearDoublesCommand) Execute() error {
	ctx := context.Background()

	records, children, err := c.store.ReadTree(ctx, "local")
	if err != nil {
		return fmt.Errorf("reading local tree: %w", err)
	}

	seen := make(map[string]syncids.GUID)
	var duplicates []syncids.GUID

	var walk func(guid syncids.GUID)
	walk = func(guid syncids.GUID) {
		if r, ok := records[guid]; ok && r.Type == syncids.TypeBookmark && r.BookmarkURI != nil && *r.BookmarkURI != "" {
			if keeper, dup := seen[*r.BookmarkURI]; dup {
				duplicates = append(duplicates, guid)
				fmt.Printf("Found duplicate: %q (keeping %s)\n", *r.BookmarkURI, keeper)
			} else {
				seen[*r.BookmarkURI] = guid
			}
		}
		for _, child := range children[guid] {
			walk(child)
		}
	}
	for _, root := range syncids.CanonicalRootChildren {
		walk(root)
	}

	if len(duplicates) == 0 {
		fmt.Println("No duplicate bookmarks found.")
		return nil
	}

	if err := c.store.TombstoneLocal(ctx, duplicates); err != nil {
		return fmt.Errorf("tombstoning duplicates: %w", err)
	}

	fmt.Printf("Tombstoned %d duplicate bookmark(s); run sync to propagate.\n", len(duplicates))
	return nil
}
