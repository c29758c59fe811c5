package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-sync/internal/result"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// Steps 5 and 6 of a sync pass are a handful of exact statements against
// the mirror and buffer tables; go-sqlmock lets these be asserted
// without standing up a real sqlite3 file, the same way the mirror/
// buffer write path would be unit tested against a mocked driver.
func TestCommit_IssuesExpectedSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pos := 0
	title := "Example"
	uri := "https://example.com"
	rec := syncids.Record{
		GUID:           syncids.GUID("aaaaaaaaaaaa"),
		Type:           syncids.TypeBookmark,
		ServerModified: 1000,
		ParentID:       guidPtr(syncids.UnfiledGUID),
		Pos:            &pos,
		Title:          &title,
		BookmarkURI:    &uri,
		SyncStatus:     syncids.StatusSynced,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT OR REPLACE INTO bookmarks_mirror`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT OR REPLACE INTO bookmarks_mirror_structure (parent, child, idx) VALUES (?, ?, ?)`)).
		WithArgs(string(syncids.UnfiledGUID), string(rec.GUID), pos).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks_mirror WHERE guid = ?`)).
		WithArgs("deleteme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks_mirror_structure WHERE child = ?`)).
		WithArgs("deleteme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks_buffer WHERE guid = ?`)).
		WithArgs("consumed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks_buffer_structure WHERE child = ?`)).
		WithArgs("consumed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks_local WHERE guid = ?`)).
		WithArgs("discarded").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks_local_structure WHERE child = ?`)).
		WithArgs("discarded").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := &Store{db: db}
	override := result.LocalOverrideCompletionOp{
		MirrorValuesToCopyFromLocal: []syncids.Record{rec},
		MirrorItemsToDelete:         map[syncids.GUID]struct{}{"deleteme": {}},
	}
	buffer := result.BufferCompletionOp{
		ProcessedBufferGUIDs: map[syncids.GUID]struct{}{"consumed": {}},
	}
	localDeletion := result.LocalDeletionOp{
		GUIDs: map[syncids.GUID]struct{}{"discarded": {}},
	}

	require.NoError(t, store.Commit(context.Background(), override, buffer, localDeletion))
	require.NoError(t, mock.ExpectationsWereMet())
}

func guidPtr(g syncids.GUID) *syncids.GUID { return &g }
