package merge

import (
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// findDuplicateFolderMatches implements the duplicate-folder matching
// rule: if a single LOCAL New folder content-matches exactly one of a
// group of incoming hasDupe remote folders sharing its intended parent,
// it is matched to that specific remote GUID (the first, by canonical
// child order, not already consumed). The match is local-to-remote only;
// remote dupes are never collapsed against each other (so two identical
// incoming empty folders both survive distinct, per S5).
func (m *merger) findDuplicateFolderMatches() (map[syncids.GUID]syncids.GUID, error) {
	remoteByParent, err := m.remoteDupeCandidatesByParent()
	if err != nil {
		return nil, err
	}

	matches := make(map[syncids.GUID]syncids.GUID)
	consumed := make(map[syncids.GUID]struct{})

	for guid, node := range m.local.Lookup {
		if !tree.IsFolder(node) {
			continue
		}
		if m.mirror.Contains(guid) {
			continue // not a New folder
		}
		if m.remote.Contains(guid) {
			continue // same GUID on both sides: not a dedupe case
		}
		parent, ok := m.local.ParentOf(guid)
		if !ok {
			continue
		}
		candidates := remoteByParent[parent]
		if len(candidates) == 0 {
			continue
		}
		lv, has, err := m.fetchLocal(guid)
		if err != nil {
			return nil, err
		}
		if !has {
			continue
		}
		for _, rguid := range candidates {
			if _, taken := consumed[rguid]; taken {
				continue
			}
			rv, has, err := m.fetchRemote(rguid)
			if err != nil {
				return nil, err
			}
			if !has {
				continue
			}
			if lv.SameAs(rv) {
				matches[guid] = rguid
				consumed[rguid] = struct{}{}
				m.logConflict("duplicate folder %s matched to incoming %s under parent %s", guid, rguid, parent)
				break
			}
		}
	}
	return matches, nil
}

// remoteDupeCandidatesByParent groups, by parent GUID, every remote
// folder that is new relative to mirror and flagged hasDupe, preserving
// each parent's canonical (remote) child order.
func (m *merger) remoteDupeCandidatesByParent() (map[syncids.GUID][]syncids.GUID, error) {
	out := make(map[syncids.GUID][]syncids.GUID)
	for parentGUID, node := range m.remote.Lookup {
		folder, ok := node.(*tree.Folder)
		if !ok {
			continue
		}
		for _, child := range folder.Children {
			childNode := m.remote.Lookup[child]
			if !tree.IsFolder(childNode) {
				continue
			}
			if m.mirror.Contains(child) {
				continue
			}
			rv, has, err := m.fetchRemote(child)
			if err != nil {
				return nil, err
			}
			if has && rv.HasDupe {
				out[parentGUID] = append(out[parentGUID], child)
			}
		}
	}
	return out, nil
}
