package result

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-sync/internal/logging"
	"github.com/dastanaron/bookmarks-sync/internal/merge"
	"github.com/dastanaron/bookmarks-sync/internal/sources"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

func rootRecords() []syncids.Record {
	rootTitle := "root"
	recs := []syncids.Record{{GUID: syncids.RootGUID, Type: syncids.TypeFolder, Title: &rootTitle, Children: syncids.CanonicalRootChildren}}
	for _, c := range syncids.CanonicalRootChildren {
		title := string(c)
		recs = append(recs, syncids.Record{GUID: c, Type: syncids.TypeFolder, Title: &title})
	}
	return recs
}

func rootOnlyTree(t *testing.T) *tree.BookmarkTree {
	t.Helper()
	bt := tree.EmptyMirror()
	return bt
}

func TestBuild_NoOpMergeProducesEmptyOps(t *testing.T) {
	local := rootOnlyTree(t)
	mirror := rootOnlyTree(t)
	remote := rootOnlyTree(t)

	merged, err := merge.Merge(context.Background(), local, mirror, remote, sources.Sources{
		Local:  sources.NewMemorySource(),
		Mirror: sources.NewMemorySource(),
		Buffer: sources.NewMemorySource(),
	}, logging.NewNop())
	require.NoError(t, err)
	require.True(t, merged.IsNoOp())

	res := Build(merged)
	require.Empty(t, res.Upstream.Records)
	require.Empty(t, res.LocalOverride.MirrorValuesToCopyFromBuffer)
	require.Empty(t, res.LocalOverride.MirrorValuesToCopyFromLocal)
	require.True(t, IsNoOp(merged))
}

// S7: local deletes a folder remote still has live; Build must upload a
// tombstone for it, not merely drop it from the mirror.
func TestBuild_DeleteRemotelyProducesUpstreamTombstone(t *testing.T) {
	folder := syncids.GUID("deletedfldr_")
	child := syncids.GUID("survivorchd_")

	mirrorStructure := []tree.StructureRow{{Parent: syncids.UnfiledGUID, Child: folder, Index: 0}}
	mirrorValues := []tree.ValueRow{{GUID: folder, Type: syncids.TypeFolder}}
	mirror, err := tree.Build(append(rootSkeletonStructure(), mirrorStructure...), append(rootSkeletonValues(), mirrorValues...))
	require.NoError(t, err)

	localValues := []tree.ValueRow{{GUID: folder, Type: syncids.TypeFolder, IsDeleted: true}}
	local, err := tree.Build(rootSkeletonStructure(), append(rootSkeletonValues(), localValues...))
	require.NoError(t, err)

	remoteStructure := []tree.StructureRow{
		{Parent: syncids.UnfiledGUID, Child: folder, Index: 0},
		{Parent: folder, Child: child, Index: 0},
	}
	remoteValues := []tree.ValueRow{
		{GUID: folder, Type: syncids.TypeFolder},
		{GUID: child, Type: syncids.TypeBookmark},
	}
	remote, err := tree.Build(append(rootSkeletonStructure(), remoteStructure...), append(rootSkeletonValues(), remoteValues...))
	require.NoError(t, err)

	title := "Deleted"
	childTitle, childURI := "Survivor", "https://survivor"
	remoteRecs := []syncids.Record{
		{GUID: folder, Type: syncids.TypeFolder, Title: &title},
		{GUID: child, Type: syncids.TypeBookmark, Title: &childTitle, BookmarkURI: &childURI},
	}

	merged, err := merge.Merge(context.Background(), local, mirror, remote, sources.Sources{
		Local:  sources.NewMemorySource(rootRecords()...),
		Mirror: sources.NewMemorySource(rootRecords()...),
		Buffer: sources.NewMemorySource(append(rootRecords(), remoteRecs...)...),
	}, logging.NewNop())
	require.NoError(t, err)
	require.Contains(t, merged.DeleteRemotely, folder)

	res := Build(merged)

	var tombstoned bool
	for _, r := range res.Upstream.Records {
		if r.GUID == folder {
			tombstoned = true
			require.True(t, r.IsDeleted)
			require.Equal(t, syncids.TypeFolder, r.Type)
		}
	}
	require.True(t, tombstoned, "expected a tombstone for %s in Upstream.Records", folder)
}

// S2: a bookmark that arrived only in the buffer must land in the mirror
// but never get echoed straight back upstream on the same pass.
func TestBuild_RemoteOnlyAdditionIsNotUploaded(t *testing.T) {
	bm := syncids.GUID("remotebm____")

	local, err := tree.Build(rootSkeletonStructure(), rootSkeletonValues())
	require.NoError(t, err)
	mirror, err := tree.Build(rootSkeletonStructure(), rootSkeletonValues())
	require.NoError(t, err)

	remoteStructure := []tree.StructureRow{{Parent: syncids.ToolbarGUID, Child: bm, Index: 0}}
	remoteValues := []tree.ValueRow{{GUID: bm, Type: syncids.TypeBookmark}}
	remote, err := tree.Build(append(rootSkeletonStructure(), remoteStructure...), append(rootSkeletonValues(), remoteValues...))
	require.NoError(t, err)

	title, uri := "Remote", "https://example.org"
	remoteRecs := []syncids.Record{{GUID: bm, Type: syncids.TypeBookmark, Title: &title, BookmarkURI: &uri}}

	merged, err := merge.Merge(context.Background(), local, mirror, remote, sources.Sources{
		Local:  sources.NewMemorySource(rootRecords()...),
		Mirror: sources.NewMemorySource(rootRecords()...),
		Buffer: sources.NewMemorySource(append(rootRecords(), remoteRecs...)...),
	}, logging.NewNop())
	require.NoError(t, err)

	res := Build(merged)

	for _, r := range res.Upstream.Records {
		require.NotEqual(t, bm, r.GUID, "a buffer-origin record must never be echoed back upstream")
	}

	var staged bool
	for _, r := range res.LocalOverride.MirrorValuesToCopyFromBuffer {
		if r.GUID == bm {
			staged = true
		}
	}
	require.True(t, staged, "expected %s to be staged for the mirror write", bm)
}

// S6: a local-only folder content-matches an incoming remote duplicate;
// Build must schedule the discarded local GUID for local-only removal,
// never for upload.
func TestBuild_DedupeDiscardedSchedulesLocalDeletionOnly(t *testing.T) {
	localGUID := syncids.GUID("localfolder_")
	remoteGUID := syncids.GUID("remotedup1__")

	localStructure := []tree.StructureRow{{Parent: syncids.UnfiledGUID, Child: localGUID, Index: 0}}
	localValues := []tree.ValueRow{{GUID: localGUID, Type: syncids.TypeFolder}}
	local, err := tree.Build(append(rootSkeletonStructure(), localStructure...), append(rootSkeletonValues(), localValues...))
	require.NoError(t, err)

	mirror, err := tree.Build(rootSkeletonStructure(), rootSkeletonValues())
	require.NoError(t, err)

	remoteStructure := []tree.StructureRow{{Parent: syncids.UnfiledGUID, Child: remoteGUID, Index: 0}}
	remoteValues := []tree.ValueRow{{GUID: remoteGUID, Type: syncids.TypeFolder}}
	remote, err := tree.Build(append(rootSkeletonStructure(), remoteStructure...), append(rootSkeletonValues(), remoteValues...))
	require.NoError(t, err)

	title := "Dupe"
	localRecs := []syncids.Record{{GUID: localGUID, Type: syncids.TypeFolder, Title: &title}}
	remoteRecs := []syncids.Record{{GUID: remoteGUID, Type: syncids.TypeFolder, Title: &title, HasDupe: true}}

	merged, err := merge.Merge(context.Background(), local, mirror, remote, sources.Sources{
		Local:  sources.NewMemorySource(append(rootRecords(), localRecs...)...),
		Mirror: sources.NewMemorySource(rootRecords()...),
		Buffer: sources.NewMemorySource(append(rootRecords(), remoteRecs...)...),
	}, logging.NewNop())
	require.NoError(t, err)
	require.Contains(t, merged.DedupeDiscarded, localGUID)

	res := Build(merged)

	require.Contains(t, res.LocalDeletion.GUIDs, localGUID)
	for _, r := range res.Upstream.Records {
		require.NotEqual(t, localGUID, r.GUID, "a dedupe-discarded local-only GUID must never be uploaded")
	}
}

func rootSkeletonStructure() []tree.StructureRow {
	var structure []tree.StructureRow
	for i, child := range syncids.CanonicalRootChildren {
		structure = append(structure, tree.StructureRow{Parent: syncids.RootGUID, Child: child, Index: i})
	}
	return structure
}

func rootSkeletonValues() []tree.ValueRow {
	values := []tree.ValueRow{{GUID: syncids.RootGUID, Type: syncids.TypeFolder}}
	for _, child := range syncids.CanonicalRootChildren {
		values = append(values, tree.ValueRow{GUID: child, Type: syncids.TypeFolder})
	}
	return values
}

func TestLocalOverrideCompletionOp_StampModified(t *testing.T) {
	op := &LocalOverrideCompletionOp{}
	op.StampModified(POSTResult{
		Modified: 12345,
		Success:  []syncids.GUID{"aaaaaaaaaaaa", "bbbbbbbbbbbb"},
		Failed:   map[syncids.GUID]string{"cccccccccccc": "timeout"},
	})
	require.Equal(t, int64(12345), op.ModifiedTimes["aaaaaaaaaaaa"])
	require.Equal(t, int64(12345), op.ModifiedTimes["bbbbbbbbbbbb"])
	_, hasFailed := op.ModifiedTimes["cccccccccccc"]
	require.False(t, hasFailed)
}
