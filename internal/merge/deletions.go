package merge

import (
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// conflictSide names which side's live children must be reparented when a
// deletion on the other side wins.
type conflictSide int

const (
	sideNone conflictSide = iota
	// sideRemoteSurvivingChildren: local deleted the folder, so any live
	// children remote still has under it need a new home.
	sideRemoteSurvivingChildren
	// sideLocalSurvivingChildren: remote deleted the folder, so any live
	// children local still has under it need a new home.
	sideLocalSurvivingChildren
)

// deletionResult is the outcome of walking the deletion-vs-modification
// rule over every GUID in the universe.
type deletionResult struct {
	gone map[syncids.GUID]struct{}

	deleteLocally        map[syncids.GUID]struct{}
	deleteRemotely        map[syncids.GUID]struct{}
	deleteFromMirror      map[syncids.GUID]struct{}
	acceptLocalDeletion   map[syncids.GUID]struct{}
	acceptRemoteDeletion  map[syncids.GUID]struct{}

	// conflictFolders maps a deleted folder GUID to which side's
	// surviving children (if any) must be reparented.
	conflictFolders map[syncids.GUID]conflictSide
}

func newDeletionResult() *deletionResult {
	return &deletionResult{
		gone:                 make(map[syncids.GUID]struct{}),
		deleteLocally:        make(map[syncids.GUID]struct{}),
		deleteRemotely:       make(map[syncids.GUID]struct{}),
		deleteFromMirror:     make(map[syncids.GUID]struct{}),
		acceptLocalDeletion:  make(map[syncids.GUID]struct{}),
		acceptRemoteDeletion: make(map[syncids.GUID]struct{}),
		conflictFolders:      make(map[syncids.GUID]conflictSide),
	}
}

// resolveDeletions applies the deletion-vs-modification rule: a tombstone
// on either side always wins for that GUID. If both sides tombstone it,
// it is simply dropped from the mirror. If only one side deletes it, that
// deletion is accepted and the other side is told to apply it too; the
// other side's live children (if this was a folder) are reparented by a
// later pass, regardless of whether that side's Modified set flagged the
// folder, so an unflagged but structurally present child is never lost.
func (m *merger) resolveDeletions(universe map[syncids.GUID]struct{}) (*deletionResult, error) {
	res := newDeletionResult()
	for guid := range universe {
		localDel := m.local.IsDeleted(guid)
		remoteDel := m.remote.IsDeleted(guid)

		switch {
		case localDel && remoteDel:
			res.gone[guid] = struct{}{}
			res.deleteFromMirror[guid] = struct{}{}
		case localDel && !remoteDel:
			res.gone[guid] = struct{}{}
			res.acceptLocalDeletion[guid] = struct{}{}
			res.deleteRemotely[guid] = struct{}{}
			res.deleteFromMirror[guid] = struct{}{}
			res.conflictFolders[guid] = sideRemoteSurvivingChildren
			if m.remote.IsModified(guid) {
				m.logConflict("local deleted %s while remote modified it; accepting local deletion", guid)
			}
		case !localDel && remoteDel:
			res.gone[guid] = struct{}{}
			res.acceptRemoteDeletion[guid] = struct{}{}
			res.deleteLocally[guid] = struct{}{}
			res.deleteFromMirror[guid] = struct{}{}
			res.conflictFolders[guid] = sideLocalSurvivingChildren
			if m.local.IsModified(guid) {
				m.logConflict("remote deleted %s while local modified it; accepting remote deletion", guid)
			}
		}
	}
	return res, nil
}

// reparentOrphansOfDeletedFolders walks every deleted folder that had a
// conflicting side, finds that side's live children, and reparents them
// under the lowest surviving ancestor of the deleted folder. It returns
// the forced-parent overrides and the set of folders whose structure is
// thereby forced to StructureNew.
func (m *merger) reparentOrphansOfDeletedFolders(res *deletionResult) (map[syncids.GUID]syncids.GUID, map[syncids.GUID]struct{}, error) {
	forcedParent := make(map[syncids.GUID]syncids.GUID)
	forcedOrderParents := make(map[syncids.GUID]struct{})

	for deletedGUID, side := range res.conflictFolders {
		var survivingTree *tree.BookmarkTree
		switch side {
		case sideRemoteSurvivingChildren:
			survivingTree = m.remote
		case sideLocalSurvivingChildren:
			survivingTree = m.local
		default:
			continue
		}

		node := survivingTree.Get(deletedGUID)
		folder, ok := node.(*tree.Folder)
		if !ok || len(folder.Children) == 0 {
			continue
		}

		lsa := m.lowestSurvivingAncestor(deletedGUID, res.gone)
		for _, child := range folder.Children {
			if _, gone := res.gone[child]; gone {
				continue
			}
			forcedParent[child] = lsa
		}
		forcedOrderParents[lsa] = struct{}{}
	}

	return forcedParent, forcedOrderParents, nil
}

// lowestSurvivingAncestor walks guid's parent chain in MIRROR, the
// baseline both sides agree existed, skipping every ancestor that is
// itself being dropped from the mirror, and stopping at the first
// survivor. In the worst case this converges on a canonical root, since
// canonical roots are never members of gone.
func (m *merger) lowestSurvivingAncestor(guid syncids.GUID, gone map[syncids.GUID]struct{}) syncids.GUID {
	cur := guid
	for {
		parent, ok := m.mirror.ParentOf(cur)
		if !ok {
			return syncids.UnfiledGUID
		}
		if parent.IsRoot() {
			return parent
		}
		if _, isGone := gone[parent]; !isGone {
			return parent
		}
		cur = parent
	}
}
