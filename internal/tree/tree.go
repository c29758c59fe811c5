package tree

import "github.com/dastanaron/bookmarks-sync/internal/syncids"

// BookmarkTree is the materialised view of a single source's rows: a
// parent/child map plus the bookkeeping sets the merger needs (orphans,
// tombstones, modified nodes).
type BookmarkTree struct {
	// Subtrees lists the top-level node GUIDs, in order. A well-formed
	// tree has exactly one subtree, whose root is RootGUID.
	Subtrees []syncids.GUID

	// Lookup maps every known GUID to its Node.
	Lookup map[syncids.GUID]Node

	// Parents maps a child GUID to its parent GUID. The root and any
	// subtree root has no entry here.
	Parents map[syncids.GUID]syncids.GUID

	// Orphans holds GUIDs that are referenced as a child by some parent
	// but whose own parent cannot be resolved to a subtree root.
	Orphans map[syncids.GUID]struct{}

	// Deleted holds tombstone GUIDs: rows that represent a deletion
	// rather than a live node. Disjoint from Lookup's keys.
	Deleted map[syncids.GUID]struct{}

	// Modified holds GUIDs whose value row is flagged as changed since
	// the last mirror snapshot (ValueRow.IsModified). Structure rows do
	// not add GUIDs to this set.
	Modified map[syncids.GUID]struct{}
}

// newEmpty returns a BookmarkTree with all maps initialised but no
// content.
func newEmpty() *BookmarkTree {
	return &BookmarkTree{
		Lookup:   make(map[syncids.GUID]Node),
		Parents:  make(map[syncids.GUID]syncids.GUID),
		Orphans:  make(map[syncids.GUID]struct{}),
		Deleted:  make(map[syncids.GUID]struct{}),
		Modified: make(map[syncids.GUID]struct{}),
	}
}

// Empty returns a tree with zero subtrees: the baseline for a client or
// buffer that has never seen any rows.
func Empty() *BookmarkTree {
	return newEmpty()
}

// EmptyMirror returns a tree containing just the canonical root with its
// four canonical children as empty folder leaves, the mirror's state
// before the first sync pass.
func EmptyMirror() *BookmarkTree {
	t := newEmpty()
	root := NewFolder(syncids.RootGUID)
	root.Children = append(root.Children, syncids.CanonicalRootChildren...)
	t.Lookup[syncids.RootGUID] = root
	for _, child := range syncids.CanonicalRootChildren {
		t.Lookup[child] = NewFolder(child)
		t.Parents[child] = syncids.RootGUID
	}
	t.Subtrees = []syncids.GUID{syncids.RootGUID}
	return t
}

// Get returns the node for guid, or nil if unknown to this tree.
func (t *BookmarkTree) Get(guid syncids.GUID) Node {
	return t.Lookup[guid]
}

// Contains reports whether guid is a live node in this tree (not a
// tombstone, not merely an orphan reference).
func (t *BookmarkTree) Contains(guid syncids.GUID) bool {
	_, ok := t.Lookup[guid]
	return ok
}

// IsDeleted reports whether guid is a tombstone in this tree.
func (t *BookmarkTree) IsDeleted(guid syncids.GUID) bool {
	_, ok := t.Deleted[guid]
	return ok
}

// IsModified reports whether guid changed relative to the last mirror
// snapshot, per this tree's Modified set.
func (t *BookmarkTree) IsModified(guid syncids.GUID) bool {
	_, ok := t.Modified[guid]
	return ok
}

// ParentOf returns the parent GUID of guid and whether it is known.
func (t *BookmarkTree) ParentOf(guid syncids.GUID) (syncids.GUID, bool) {
	p, ok := t.Parents[guid]
	return p, ok
}

// AllGUIDs returns every GUID reachable through Lookup, independent of
// reachability from a root (includes orphans).
func (t *BookmarkTree) AllGUIDs() map[syncids.GUID]struct{} {
	out := make(map[syncids.GUID]struct{}, len(t.Lookup))
	for guid := range t.Lookup {
		out[guid] = struct{}{}
	}
	return out
}

// IsFullyRootedIn reports whether every GUID in this tree's Lookup
// (orphans included, whether reachable from a root or not) is either
// present in other, or marked Unknown in this tree.
func (t *BookmarkTree) IsFullyRootedIn(other *BookmarkTree) bool {
	for guid, node := range t.Lookup {
		if _, isUnknown := node.(*Unknown); isUnknown {
			continue
		}
		if !other.Contains(guid) {
			return false
		}
	}
	return true
}
