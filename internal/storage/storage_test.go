package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-sync/internal/result"
	"github.com/dastanaron/bookmarks-sync/internal/sources"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "bookmarks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadEmptyLocalTreeHasNoSubtrees(t *testing.T) {
	store := openTestStore(t)
	tr, err := store.LoadLocal(context.Background())
	require.NoError(t, err)
	require.Empty(t, tr.Subtrees)
}

func TestStore_ItemSourceRoundTrip(t *testing.T) {
	store := openTestStore(t)
	title := "Example"
	uri := "https://example.com"
	rec := syncids.Record{GUID: "aaaaaaaaaaaa", Type: syncids.TypeBookmark, Title: &title, BookmarkURI: &uri}

	_, err := store.db.Exec(upsertMirrorSQL, mustUpsertArgs(t, rec)...)
	require.NoError(t, err)

	got, err := store.Mirror().Get(context.Background(), rec.GUID)
	require.NoError(t, err)
	require.Equal(t, rec.GUID, got.GUID)
	require.Equal(t, *rec.Title, *got.Title)
	require.Equal(t, *rec.BookmarkURI, *got.BookmarkURI)

	_, err = store.Mirror().Get(context.Background(), "missingmissi")
	require.ErrorIs(t, err, sources.ErrNotFound)
}

func TestStore_CommitAppliesMirrorWritesAndClearsBuffer(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	title := "New"
	uri := "https://new.example"
	parent := syncids.MenuGUID
	pos := 0
	rec := syncids.Record{GUID: "bbbbbbbbbbbb", Type: syncids.TypeBookmark, Title: &title, BookmarkURI: &uri, ParentID: &parent, Pos: &pos}

	_, err := store.db.Exec(upsertMirrorSQL, mustUpsertArgs(t, syncids.Record{GUID: "ccccccccccc_", Type: syncids.TypeBookmark})...)
	require.NoError(t, err)
	_, err = store.db.Exec(`INSERT INTO bookmarks_buffer (guid, type, server_modified, is_deleted, has_dupe, parent_id, parent_name, feed_uri, site_uri, pos, title, description, bookmark_uri, tags_json, keyword, folder_name, query_id, favicon_id, local_modified, sync_status) VALUES ('bbbbbbbbbbbb', 'bookmark', 0, 0, 0, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, 0, 'synced')`)
	require.NoError(t, err)
	_, err = store.db.Exec(upsertLocalSQL, mustUpsertArgs(t, syncids.Record{GUID: "ddddddddddd_", Type: syncids.TypeFolder})...)
	require.NoError(t, err)
	_, err = store.db.Exec(`INSERT INTO bookmarks_local_structure (parent, child, idx) VALUES (?, ?, ?)`, string(syncids.UnfiledGUID), "ddddddddddd_", 0)
	require.NoError(t, err)

	override := result.LocalOverrideCompletionOp{
		MirrorValuesToCopyFromBuffer: []syncids.Record{rec},
		MirrorItemsToDelete:          map[syncids.GUID]struct{}{"ccccccccccc_": {}},
		ModifiedTimes:                map[syncids.GUID]int64{"bbbbbbbbbbbb": 555},
	}
	buffer := result.BufferCompletionOp{ProcessedBufferGUIDs: map[syncids.GUID]struct{}{"bbbbbbbbbbbb": {}}}
	localDeletion := result.LocalDeletionOp{GUIDs: map[syncids.GUID]struct{}{"ddddddddddd_": {}}}

	require.NoError(t, store.Commit(ctx, override, buffer, localDeletion))

	got, err := store.Mirror().Get(ctx, "bbbbbbbbbbbb")
	require.NoError(t, err)
	require.Equal(t, int64(555), got.ServerModified)

	_, err = store.Mirror().Get(ctx, "ccccccccccc_")
	require.ErrorIs(t, err, sources.ErrNotFound)

	var bufferCount int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM bookmarks_buffer WHERE guid = ?`, "bbbbbbbbbbbb").Scan(&bufferCount))
	require.Equal(t, 0, bufferCount)

	var localCount, localStructureCount int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM bookmarks_local WHERE guid = ?`, "ddddddddddd_").Scan(&localCount))
	require.Equal(t, 0, localCount)
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM bookmarks_local_structure WHERE child = ?`, "ddddddddddd_").Scan(&localStructureCount))
	require.Equal(t, 0, localStructureCount)
}

func mustUpsertArgs(t *testing.T, r syncids.Record) []any {
	t.Helper()
	args, err := upsertArgs(r)
	require.NoError(t, err)
	return args
}
