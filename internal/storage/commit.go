package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dastanaron/bookmarks-sync/internal/result"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// execer is the subset of *sql.Tx that commitMirrorWrites/commitBufferClear
// need, so they can be exercised directly against a *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var upsertMirrorSQL = fmt.Sprintf(
	`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`,
	valueTable("mirror"), recordColumns, placeholders(20),
)

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}

// Commit applies steps 5 and 6 of a sync pass (stamping the mirror with
// override, clearing buffer) plus removing any localDeletion GUIDs from
// LOCAL outright, all inside one transaction.
func (s *Store) Commit(ctx context.Context, override result.LocalOverrideCompletionOp, buffer result.BufferCompletionOp, localDeletion result.LocalDeletionOp) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := commitMirrorWrites(ctx, tx, override); err != nil {
		tx.Rollback()
		return err
	}
	if err := commitBufferClear(ctx, tx, buffer); err != nil {
		tx.Rollback()
		return err
	}
	if err := commitLocalDeletion(ctx, tx, localDeletion); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func commitMirrorWrites(ctx context.Context, tx execer, override result.LocalOverrideCompletionOp) error {
	records := append(append([]syncids.Record{}, override.MirrorValuesToCopyFromBuffer...), override.MirrorValuesToCopyFromLocal...)
	for _, r := range records {
		args, err := upsertArgs(r)
		if err != nil {
			return fmt.Errorf("encoding mirror row %s: %w", r.GUID, err)
		}
		if _, err := tx.ExecContext(ctx, upsertMirrorSQL, args...); err != nil {
			return fmt.Errorf("upserting mirror row %s: %w", r.GUID, err)
		}
		if r.ParentID != nil && r.Pos != nil {
			_, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT OR REPLACE INTO %s (parent, child, idx) VALUES (?, ?, ?)`, structureTable("mirror")),
				string(*r.ParentID), string(r.GUID), *r.Pos)
			if err != nil {
				return fmt.Errorf("writing mirror structure row for %s: %w", r.GUID, err)
			}
		}
	}

	for guid := range override.MirrorItemsToDelete {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE guid = ?`, valueTable("mirror")), string(guid)); err != nil {
			return fmt.Errorf("deleting mirror row %s: %w", guid, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE child = ?`, structureTable("mirror")), string(guid)); err != nil {
			return fmt.Errorf("deleting mirror structure row for %s: %w", guid, err)
		}
	}

	for guid, modified := range override.ModifiedTimes {
		if _, deleted := override.MirrorItemsToDelete[guid]; deleted {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET server_modified = ? WHERE guid = ?`, valueTable("mirror")),
			modified, string(guid)); err != nil {
			return fmt.Errorf("stamping modified time for %s: %w", guid, err)
		}
	}
	return nil
}

// commitLocalDeletion hard-deletes every GUID a dedupe pass discarded:
// these rows were never uploaded and the mirror never knew about them,
// so they are removed outright rather than tombstoned for a future pass
// to reconcile.
func commitLocalDeletion(ctx context.Context, tx execer, localDeletion result.LocalDeletionOp) error {
	for guid := range localDeletion.GUIDs {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE guid = ?`, valueTable("local")), string(guid)); err != nil {
			return fmt.Errorf("deleting local row %s: %w", guid, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE child = ?`, structureTable("local")), string(guid)); err != nil {
			return fmt.Errorf("deleting local structure row for %s: %w", guid, err)
		}
	}
	return nil
}

func commitBufferClear(ctx context.Context, tx execer, buffer result.BufferCompletionOp) error {
	for guid := range buffer.ProcessedBufferGUIDs {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE guid = ?`, valueTable("buffer")), string(guid)); err != nil {
			return fmt.Errorf("clearing buffer row %s: %w", guid, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE child = ?`, structureTable("buffer")), string(guid)); err != nil {
			return fmt.Errorf("clearing buffer structure row for %s: %w", guid, err)
		}
	}
	return nil
}
