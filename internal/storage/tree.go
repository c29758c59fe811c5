package storage

import (
	"context"
	"fmt"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// LoadLocal materialises the LOCAL tree from bookmarks_local(_structure).
func (s *Store) LoadLocal(ctx context.Context) (*tree.BookmarkTree, error) { return s.loadTree(ctx, "local") }

// LoadMirror materialises the MIRROR tree from bookmarks_mirror(_structure).
func (s *Store) LoadMirror(ctx context.Context) (*tree.BookmarkTree, error) { return s.loadTree(ctx, "mirror") }

// LoadBuffer materialises the incoming REMOTE tree from
// bookmarks_buffer(_structure).
func (s *Store) LoadBuffer(ctx context.Context) (*tree.BookmarkTree, error) { return s.loadTree(ctx, "buffer") }

func (s *Store) loadTree(ctx context.Context, side string) (*tree.BookmarkTree, error) {
	values, err := s.loadValueRows(ctx, valueTable(side))
	if err != nil {
		return nil, fmt.Errorf("loading %s values: %w", side, err)
	}
	structure, err := s.loadStructureRows(ctx, structureTable(side))
	if err != nil {
		return nil, fmt.Errorf("loading %s structure: %w", side, err)
	}
	return tree.Build(structure, values)
}

func (s *Store) loadValueRows(ctx context.Context, table string) ([]tree.ValueRow, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT guid, type, is_deleted, sync_status FROM %s`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tree.ValueRow
	for rows.Next() {
		var guid, typ, syncStatus string
		var isDeleted int
		if err := rows.Scan(&guid, &typ, &isDeleted, &syncStatus); err != nil {
			return nil, err
		}
		out = append(out, tree.ValueRow{
			GUID:       syncids.GUID(guid),
			Type:       syncids.NodeType(typ),
			IsDeleted:  isDeleted != 0,
			IsModified: syncids.SyncStatus(syncStatus) != syncids.StatusSynced,
		})
	}
	return out, rows.Err()
}

func (s *Store) loadStructureRows(ctx context.Context, table string) ([]tree.StructureRow, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT parent, child, idx FROM %s ORDER BY parent, idx`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tree.StructureRow
	for rows.Next() {
		var parent, child string
		var idx int
		if err := rows.Scan(&parent, &child, &idx); err != nil {
			return nil, err
		}
		out = append(out, tree.StructureRow{
			Parent: syncids.GUID(parent),
			Child:  syncids.GUID(child),
			Index:  idx,
		})
	}
	return out, rows.Err()
}
