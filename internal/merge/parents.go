package merge

import "github.com/dastanaron/bookmarks-sync/internal/syncids"

// resolveParents decides, for every surviving GUID, which folder it ends
// up under in the merged tree. Forced overrides (from reparenting a
// deleted folder's live children) take precedence over the ordinary
// per-GUID parent decision.
func (m *merger) resolveParents(universe, gone map[syncids.GUID]struct{}, dedupeMatches, forcedParent map[syncids.GUID]syncids.GUID) (map[syncids.GUID]syncids.GUID, error) {
	result := make(map[syncids.GUID]syncids.GUID, len(universe))
	for guid := range universe {
		if _, isGone := gone[guid]; isGone {
			continue
		}
		if forced, ok := forcedParent[guid]; ok {
			result[guid] = forced
			continue
		}
		parent, err := m.resolveParentFor(guid)
		if err != nil {
			return nil, err
		}
		result[guid] = parent
	}
	return result, nil
}

// resolveParentFor applies the same "only one side changed it" decision
// table used for value state, but over the parent assignment rather than
// the record content: unchanged if neither side moved the node, that
// side's assignment if only one moved it, and remote-wins-with-a-logged-
// conflict if both moved it to different places.
func (m *merger) resolveParentFor(guid syncids.GUID) (syncids.GUID, error) {
	lp, lpHas := m.local.ParentOf(guid)
	mp, mpHas := m.mirror.ParentOf(guid)
	rp, rpHas := m.remote.ParentOf(guid)

	if !mpHas {
		switch {
		case lpHas && rpHas:
			if lp == rp {
				return lp, nil
			}
			m.logConflict("new guid %s introduced under different parents (local=%s remote=%s); remote wins", guid, lp, rp)
			return rp, nil
		case lpHas:
			return lp, nil
		case rpHas:
			return rp, nil
		default:
			return syncids.UnfiledGUID, nil
		}
	}

	changedLocal := lpHas && lp != mp
	changedRemote := rpHas && rp != mp

	switch {
	case !changedLocal && !changedRemote:
		return mp, nil
	case changedLocal && !changedRemote:
		return lp, nil
	case !changedLocal && changedRemote:
		return rp, nil
	default:
		if lp == rp {
			return lp, nil
		}
		m.logConflict("guid %s moved to different parents (local=%s remote=%s); remote wins", guid, lp, rp)
		return rp, nil
	}
}

// fallbackUnresolvedToUnfiled catches any GUID whose resolved parent does
// not survive the merge (e.g. it pointed at a folder that got dropped
// without going through the reparenting pass) and reattaches it under
// unfiled_____, the documented last resort.
func (m *merger) fallbackUnresolvedToUnfiled(mergedParent map[syncids.GUID]syncids.GUID, survivors map[syncids.GUID]struct{}) {
	for guid, parent := range mergedParent {
		if parent.IsRoot() {
			continue
		}
		if _, ok := survivors[parent]; ok {
			continue
		}
		mergedParent[guid] = syncids.UnfiledGUID
		m.logConflict("guid %s orphaned (parent %s does not survive); attaching under unfiled", guid, parent)
	}
}
