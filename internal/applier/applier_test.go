package applier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-sync/internal/logging"
	"github.com/dastanaron/bookmarks-sync/internal/result"
	"github.com/dastanaron/bookmarks-sync/internal/sources"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

type fakeTrees struct {
	local, mirror, buffer *tree.BookmarkTree
}

func (f *fakeTrees) LoadLocal(context.Context) (*tree.BookmarkTree, error)  { return f.local, nil }
func (f *fakeTrees) LoadMirror(context.Context) (*tree.BookmarkTree, error) { return f.mirror, nil }
func (f *fakeTrees) LoadBuffer(context.Context) (*tree.BookmarkTree, error) { return f.buffer, nil }

type fakeUploader struct {
	calls int
	post  result.POSTResult
}

func (f *fakeUploader) Post(context.Context, result.UpstreamCompletionOp) (result.POSTResult, error) {
	f.calls++
	return f.post, nil
}

type fakeCommitter struct {
	committed     bool
	override      result.LocalOverrideCompletionOp
	buffer        result.BufferCompletionOp
	localDeletion result.LocalDeletionOp
}

func (f *fakeCommitter) Commit(_ context.Context, override result.LocalOverrideCompletionOp, buffer result.BufferCompletionOp, localDeletion result.LocalDeletionOp) error {
	f.committed = true
	f.override = override
	f.buffer = buffer
	f.localDeletion = localDeletion
	return nil
}

func allowAll(context.Context, Stage) bool { return true }

func TestRunPass_NoOpNeverCallsUploaderOrCommitter(t *testing.T) {
	empty := tree.EmptyMirror()
	trees := &fakeTrees{local: empty, mirror: empty, buffer: empty}
	uploader := &fakeUploader{}
	committer := &fakeCommitter{}

	a := &Applier{
		Trees: trees,
		Sources: sources.Sources{
			Local:  sources.NewMemorySource(),
			Mirror: sources.NewMemorySource(),
			Buffer: sources.NewMemorySource(),
		},
		Uploader: uploader,
		Storage:  committer,
		Log:      logging.NewNop(),
	}

	outcome, err := a.RunPass(context.Background(), allowAll)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoOp, outcome.Outcome)
	require.Equal(t, 0, uploader.calls)
	require.False(t, committer.committed)
}

func TestRunPass_AbortsCleanlyWhenGreenLightDenies(t *testing.T) {
	empty := tree.EmptyMirror()
	trees := &fakeTrees{local: empty, mirror: empty, buffer: empty}
	uploader := &fakeUploader{}
	committer := &fakeCommitter{}

	a := &Applier{
		Trees: trees,
		Sources: sources.Sources{
			Local:  sources.NewMemorySource(),
			Mirror: sources.NewMemorySource(),
			Buffer: sources.NewMemorySource(),
		},
		Uploader: uploader,
		Storage:  committer,
		Log:      logging.NewNop(),
	}

	outcome, err := a.RunPass(context.Background(), func(context.Context, Stage) bool { return false })
	require.NoError(t, err)
	require.Equal(t, OutcomeAborted, outcome.Outcome)
	require.False(t, committer.committed)
}

func TestRunPass_PartiallyFailedUploadKeepsFailedRecordsOutOfMirrorCopy(t *testing.T) {
	bm := syncids.GUID("newbookmark_")
	structure := []tree.StructureRow{{Parent: syncids.MenuGUID, Child: bm, Index: 0}}
	values := []tree.ValueRow{{GUID: bm, Type: syncids.TypeBookmark}}

	rootStructure := []tree.StructureRow{}
	rootValues := []tree.ValueRow{{GUID: syncids.RootGUID, Type: syncids.TypeFolder}}
	for i, child := range syncids.CanonicalRootChildren {
		rootValues = append(rootValues, tree.ValueRow{GUID: child, Type: syncids.TypeFolder})
		rootStructure = append(rootStructure, tree.StructureRow{Parent: syncids.RootGUID, Child: child, Index: i})
	}

	local, err := tree.Build(append(rootStructure, structure...), append(rootValues, values...))
	require.NoError(t, err)
	mirror := tree.EmptyMirror()
	buffer := tree.EmptyMirror()

	title := "New"
	uri := "https://example.com"
	localSrc := sources.NewMemorySource(syncids.Record{GUID: bm, Type: syncids.TypeBookmark, Title: &title, BookmarkURI: &uri})

	trees := &fakeTrees{local: local, mirror: mirror, buffer: buffer}
	uploader := &fakeUploader{post: result.POSTResult{
		Modified: 999,
		Failed:   map[syncids.GUID]string{bm: "server rejected"},
	}}
	committer := &fakeCommitter{}

	a := &Applier{
		Trees: trees,
		Sources: sources.Sources{
			Local:  localSrc,
			Mirror: sources.NewMemorySource(),
			Buffer: sources.NewMemorySource(),
		},
		Uploader: uploader,
		Storage:  committer,
		Log:      logging.NewNop(),
	}

	outcome, err := a.RunPass(context.Background(), allowAll)
	require.NoError(t, err)
	require.Equal(t, OutcomeCommitted, outcome.Outcome)
	require.Equal(t, 1, uploader.calls)
	require.True(t, committer.committed)

	for _, r := range committer.override.MirrorValuesToCopyFromLocal {
		require.NotEqual(t, bm, r.GUID, "a failed record must not be stamped into the mirror")
	}
	_, stamped := committer.override.ModifiedTimes[bm]
	require.False(t, stamped)
}
