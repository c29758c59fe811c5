package storage

import (
	"context"
	"fmt"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// ReadTree loads every live (non-deleted) record of side plus its child
// ordering, for callers that work on a whole tree (export, import,
// clear-doubles, the tree viewer) rather than resolving one item at a time.
func (s *Store) ReadTree(ctx context.Context, side string) (map[syncids.GUID]syncids.Record, map[syncids.GUID][]syncids.GUID, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE is_deleted = 0`, recordColumns, valueTable(side)))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	records := make(map[syncids.GUID]syncids.Record)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, nil, err
		}
		records[r.GUID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	structRows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT parent, child FROM %s ORDER BY parent, idx`, structureTable(side)))
	if err != nil {
		return nil, nil, err
	}
	defer structRows.Close()

	children := make(map[syncids.GUID][]syncids.GUID)
	for structRows.Next() {
		var parent, child string
		if err := structRows.Scan(&parent, &child); err != nil {
			return nil, nil, err
		}
		p, c := syncids.GUID(parent), syncids.GUID(child)
		if _, ok := records[c]; !ok {
			continue
		}
		children[p] = append(children[p], c)
	}
	return records, children, structRows.Err()
}
