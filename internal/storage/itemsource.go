package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dastanaron/bookmarks-sync/internal/sources"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// itemSource implements sources.ItemSource against one value table
// (bookmarks_local, bookmarks_mirror or bookmarks_buffer).
type itemSource struct {
	db    *sql.DB
	table string
}

func (s *itemSource) Get(ctx context.Context, guid syncids.GUID) (syncids.Record, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE guid = ?`, recordColumns, s.table), string(guid))
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return syncids.Record{}, sources.ErrNotFound
	}
	if err != nil {
		return syncids.Record{}, err
	}
	return r, nil
}

// GetBatch issues a single SELECT ... WHERE guid IN (...) for every
// requested GUID, per the item-source contract.
func (s *itemSource) GetBatch(ctx context.Context, guids []syncids.GUID) (map[syncids.GUID]syncids.Record, error) {
	out := make(map[syncids.GUID]syncids.Record, len(guids))
	if len(guids) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(guids))
	args := make([]any, len(guids))
	for i, g := range guids {
		placeholders[i] = "?"
		args[i] = string(g)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE guid IN (%s)`, recordColumns, s.table, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out[r.GUID] = r
	}
	return out, rows.Err()
}

// Prefetch is a no-op acknowledgement: queries already go straight to
// SQLite's own page cache, so there is no separate warm-up to perform.
func (s *itemSource) Prefetch(context.Context, []syncids.GUID) error {
	return nil
}
