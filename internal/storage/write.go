package storage

import (
	"context"
	"fmt"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// WriteLocal inserts records and structure into bookmarks_local /
// bookmarks_local_structure, stamping every record's sync_status to
// status. Used to seed LOCAL from a freshly parsed import so the
// records flow through the real merger on the next sync pass instead of
// bypassing it.
func (s *Store) WriteLocal(ctx context.Context, records []syncids.Record, structure []tree.StructureRow, status syncids.SyncStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, r := range records {
		r.SyncStatus = status
		args, err := upsertArgs(r)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding local row %s: %w", r.GUID, err)
		}
		if _, err := tx.ExecContext(ctx, upsertLocalSQL, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("upserting local row %s: %w", r.GUID, err)
		}
	}

	for _, row := range structure {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT OR REPLACE INTO %s (parent, child, idx) VALUES (?, ?, ?)`, structureTable("local")),
			string(row.Parent), string(row.Child), row.Index); err != nil {
			tx.Rollback()
			return fmt.Errorf("writing local structure row for %s: %w", row.Child, err)
		}
	}

	return tx.Commit()
}

var upsertLocalSQL = fmt.Sprintf(
	`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`,
	valueTable("local"), recordColumns, placeholders(20),
)

// TombstoneLocal marks each of guids as deleted (sync_status=changed) in
// bookmarks_local, so the next sync pass propagates the deletion through
// the merger rather than dropping the row out from under it.
func (s *Store) TombstoneLocal(ctx context.Context, guids []syncids.GUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, guid := range guids {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET is_deleted = 1, sync_status = ? WHERE guid = ?`, valueTable("local")),
			string(syncids.StatusChanged), string(guid)); err != nil {
			tx.Rollback()
			return fmt.Errorf("tombstoning local row %s: %w", guid, err)
		}
	}
	return tx.Commit()
}
