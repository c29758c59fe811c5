package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

func TestBuildSimpleTree(t *testing.T) {
	values := []ValueRow{
		{GUID: syncids.RootGUID, Type: syncids.TypeFolder},
		{GUID: syncids.MenuGUID, Type: syncids.TypeFolder},
		{GUID: "aaaaaaaaaaaa", Type: syncids.TypeBookmark, IsModified: true},
	}
	structure := []StructureRow{
		{Parent: syncids.RootGUID, Child: syncids.MenuGUID, Index: 0},
		{Parent: syncids.MenuGUID, Child: "aaaaaaaaaaaa", Index: 0},
	}

	bt, err := Build(structure, values)
	require.NoError(t, err)

	assert.Equal(t, []syncids.GUID{syncids.RootGUID}, bt.Subtrees)
	menu, ok := bt.Lookup[syncids.MenuGUID].(*Folder)
	require.True(t, ok)
	assert.Equal(t, []syncids.GUID{"aaaaaaaaaaaa"}, menu.Children)
	assert.True(t, bt.IsModified("aaaaaaaaaaaa"))

	parent, ok := bt.ParentOf("aaaaaaaaaaaa")
	require.True(t, ok)
	assert.Equal(t, syncids.MenuGUID, parent)
}

func TestBuildNormalizesHistoricalRootNames(t *testing.T) {
	values := []ValueRow{
		{GUID: syncids.GUID("places"), Type: syncids.TypeFolder},
		{GUID: syncids.GUID("menu"), Type: syncids.TypeFolder},
	}
	structure := []StructureRow{
		{Parent: syncids.GUID("places"), Child: syncids.GUID("menu"), Index: 0},
	}

	bt, err := Build(structure, values)
	require.NoError(t, err)
	assert.True(t, bt.Contains(syncids.RootGUID))
	assert.True(t, bt.Contains(syncids.MenuGUID))
}

func TestBuildOrphansUnresolvedParent(t *testing.T) {
	values := []ValueRow{
		{GUID: "childchild01", Type: syncids.TypeBookmark},
	}
	structure := []StructureRow{
		{Parent: "missingparent", Child: "childchild01", Index: 0},
	}

	bt, err := Build(structure, values)
	require.NoError(t, err)
	_, isOrphan := bt.Orphans["childchild01"]
	assert.True(t, isOrphan)
}

func TestBuildRejectsNonFolderParent(t *testing.T) {
	values := []ValueRow{
		{GUID: "bookmarkleaf", Type: syncids.TypeBookmark},
		{GUID: "childchild01", Type: syncids.TypeBookmark},
	}
	structure := []StructureRow{
		{Parent: "bookmarkleaf", Child: "childchild01", Index: 0},
	}

	_, err := Build(structure, values)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, ReasonNonFolderParent, malformed.Reason)
}

func TestBuildRejectsDuplicateParentage(t *testing.T) {
	values := []ValueRow{
		{GUID: "folderfolder1", Type: syncids.TypeFolder},
		{GUID: "folderfolder2", Type: syncids.TypeFolder},
		{GUID: "childchild001", Type: syncids.TypeBookmark},
	}
	structure := []StructureRow{
		{Parent: "folderfolder1", Child: "childchild001", Index: 0},
		{Parent: "folderfolder2", Child: "childchild001", Index: 0},
	}

	_, err := Build(structure, values)
	require.Error(t, err)
	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, ReasonDuplicateParent, malformed.Reason)
}

func TestBuildRejectsCycles(t *testing.T) {
	values := []ValueRow{
		{GUID: "folderfolder1", Type: syncids.TypeFolder},
		{GUID: "folderfolder2", Type: syncids.TypeFolder},
	}
	structure := []StructureRow{
		{Parent: "folderfolder1", Child: "folderfolder2", Index: 0},
		{Parent: "folderfolder2", Child: "folderfolder1", Index: 0},
	}

	_, err := Build(structure, values)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestBuildProducesUnknownForLazyLeaf(t *testing.T) {
	values := []ValueRow{
		{GUID: "folderfolder1", Type: syncids.TypeFolder},
	}
	structure := []StructureRow{
		{Parent: "folderfolder1", Child: "lazyleaf0001", Index: 0},
	}

	bt, err := Build(structure, values)
	require.NoError(t, err)

	node, ok := bt.Lookup["lazyleaf0001"]
	require.True(t, ok)
	_, isUnknown := node.(*Unknown)
	assert.True(t, isUnknown)

	parent, ok := bt.ParentOf("lazyleaf0001")
	require.True(t, ok)
	assert.Equal(t, syncids.GUID("folderfolder1"), parent)
}

func TestEmptyMirrorHasCanonicalSkeleton(t *testing.T) {
	m := EmptyMirror()
	require.Equal(t, []syncids.GUID{syncids.RootGUID}, m.Subtrees)
	root, ok := m.Lookup[syncids.RootGUID].(*Folder)
	require.True(t, ok)
	assert.Equal(t, syncids.CanonicalRootChildren, root.Children)
}
