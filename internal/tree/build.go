package tree

import (
	"sort"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// StructureRow is one row of a *_structure table: child occupies position
// Index under Parent.
type StructureRow struct {
	Parent syncids.GUID
	Child  syncids.GUID
	Index  int
}

// ValueRow is one row of a value table (BookmarksLocal / BookmarksMirror /
// BookmarksBuffer), reduced to what the tree builder needs: identity,
// type, and the two status bits that feed the Deleted/Modified sets.
type ValueRow struct {
	GUID       syncids.GUID
	Type       syncids.NodeType
	IsDeleted  bool
	IsModified bool
}

// Build materialises a BookmarkTree from a table of structure rows and a
// table of value rows, following the five steps of the tree-builder
// specification: seed leaves, link structure rows in ascending
// (parent, index) order, compute subtrees, partition deleted/modified,
// and reject malformed structures.
func Build(structureRows []StructureRow, valueRows []ValueRow) (*BookmarkTree, error) {
	t := newEmpty()
	order := make([]syncids.GUID, 0, len(valueRows))

	// Step 1: seed lookup with every value row as a leaf.
	for _, row := range valueRows {
		guid := syncids.NormalizeRootGUID(row.GUID)
		if row.IsDeleted {
			t.Deleted[guid] = struct{}{}
			continue
		}
		if row.Type.IsFolder() {
			t.Lookup[guid] = NewFolder(guid)
		} else {
			t.Lookup[guid] = NewNonFolder(guid)
		}
		order = append(order, guid)
		if row.IsModified {
			t.Modified[guid] = struct{}{}
		}
	}

	// Step 2: link structure rows in ascending (parent, index) order.
	rows := make([]StructureRow, len(structureRows))
	copy(rows, structureRows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Parent != rows[j].Parent {
			return rows[i].Parent < rows[j].Parent
		}
		return rows[i].Index < rows[j].Index
	})

	for _, row := range rows {
		parent := syncids.NormalizeRootGUID(row.Parent)
		child := syncids.NormalizeRootGUID(row.Child)
		if _, deleted := t.Deleted[child]; deleted {
			// A tombstone keeps no position in the live tree.
			continue
		}

		parentNode, ok := t.Lookup[parent]
		if !ok {
			t.Orphans[child] = struct{}{}
			continue
		}
		folder, isFolder := parentNode.(*Folder)
		if !isFolder {
			return nil, newMalformedErr(ReasonNonFolderParent, child, parent)
		}
		if existingParent, has := t.Parents[child]; has && existingParent != parent {
			return nil, newMalformedErr(ReasonDuplicateParent, child, parent)
		}
		folder.Children = append(folder.Children, child)
		t.Parents[child] = parent
		if _, known := t.Lookup[child]; !known {
			// A structure row with no matching value row: the child
			// exists and has a position, but its type is not yet
			// resolved. Seed it as a lazy leaf rather than dropping it.
			t.Lookup[child] = NewUnknown(child)
		}
	}

	if err := detectCycles(t); err != nil {
		return nil, err
	}

	// Step 3: subtrees are the nodes with no recorded parent, in the
	// order they were first seen among the value rows.
	for _, guid := range order {
		if _, hasParent := t.Parents[guid]; !hasParent {
			t.Subtrees = append(t.Subtrees, guid)
		}
	}

	return t, nil
}

// detectCycles walks the parent chain from every node; a repeat before
// running out of ancestors means a cycle exists somewhere on that chain.
func detectCycles(t *BookmarkTree) error {
	for start := range t.Lookup {
		visited := map[syncids.GUID]struct{}{start: {}}
		cur := start
		for {
			parent, ok := t.Parents[cur]
			if !ok {
				break // reached a root: no cycle on this chain
			}
			if _, seen := visited[parent]; seen {
				return newMalformedErr(ReasonCycle, start, parent)
			}
			visited[parent] = struct{}{}
			cur = parent
		}
	}
	return nil
}
