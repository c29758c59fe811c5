package merge

import (
	"slices"
	"sort"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// buildNode recursively assembles the merged tree starting at guid,
// caching into nodes to guard against revisiting a GUID twice (every
// GUID belongs to exactly one parent by construction of childrenByParent,
// but the root and canonical roots are reached through fixed paths that
// this guard also covers cheaply).
func (m *merger) buildNode(guid syncids.GUID, childrenByParent map[syncids.GUID][]syncids.GUID, forcedOrderParents map[syncids.GUID]struct{}, nodes map[syncids.GUID]*MergedTreeNode) (*MergedTreeNode, error) {
	if existing, ok := nodes[guid]; ok {
		return existing, nil
	}

	node := &MergedTreeNode{
		GUID:   guid,
		Local:  m.local.Get(guid),
		Mirror: m.mirror.Get(guid),
		Remote: m.remote.Get(guid),
	}
	nodes[guid] = node

	if guid == syncids.RootGUID {
		node.ValueState = newValueState(ValueUnchanged, nil, "synthetic root")
		node.StructureState = newStructureState(StructureUnchanged, syncids.CanonicalRootChildren, "canonical roots are fixed")
		for _, child := range syncids.CanonicalRootChildren {
			childNode, err := m.buildNode(child, childrenByParent, forcedOrderParents, nodes)
			if err != nil {
				return nil, err
			}
			node.MergedChildren = append(node.MergedChildren, childNode)
		}
		return node, nil
	}

	if guid.IsRoot() {
		node.ValueState = newValueState(ValueUnchanged, nil, "canonical root")
	} else {
		valueState, err := m.valueStateFor(guid)
		if err != nil {
			return nil, err
		}
		node.ValueState = valueState
	}

	if m.isFolderGUID(guid, node.ValueState) {
		childSet := make(map[syncids.GUID]struct{}, len(childrenByParent[guid]))
		for _, c := range childrenByParent[guid] {
			childSet[c] = struct{}{}
		}
		structureState := m.orderChildren(guid, childSet, forcedOrderParents)
		node.StructureState = structureState
		for _, child := range structureState.Children {
			childNode, err := m.buildNode(child, childrenByParent, forcedOrderParents, nodes)
			if err != nil {
				return nil, err
			}
			node.MergedChildren = append(node.MergedChildren, childNode)
		}
	}

	return node, nil
}

func (m *merger) isFolderGUID(guid syncids.GUID, valueState ValueState) bool {
	if n := m.local.Get(guid); n != nil && tree.IsFolder(n) {
		return true
	}
	if n := m.mirror.Get(guid); n != nil && tree.IsFolder(n) {
		return true
	}
	if n := m.remote.Get(guid); n != nil && tree.IsFolder(n) {
		return true
	}
	return valueState.Item != nil && valueState.Item.Type == syncids.TypeFolder
}

// orderChildren decides a folder's structure state: unchanged if neither
// side reordered it, that side's order if only one did, and a topological
// merge of both orders (server wins on a genuine conflicting pair, ties
// broken remote-first then local) if both changed it or children were
// forcibly reparented into it.
func (m *merger) orderChildren(parent syncids.GUID, childSet map[syncids.GUID]struct{}, forcedOrderParents map[syncids.GUID]struct{}) StructureState {
	localOrder := filterToSet(tree.ChildrenOf(m.local.Get(parent)), childSet)
	mirrorOrder := filterToSet(tree.ChildrenOf(m.mirror.Get(parent)), childSet)
	remoteOrder := filterToSet(tree.ChildrenOf(m.remote.Get(parent)), childSet)

	_, forced := forcedOrderParents[parent]
	mirrorHasParent := m.mirror.Contains(parent) || parent.IsRoot()

	if !mirrorHasParent {
		switch {
		case len(localOrder) > 0 && len(remoteOrder) > 0:
			merged := m.topologicalMerge(localOrder, remoteOrder)
			merged = appendMissing(merged, childSet)
			return newStructureState(StructureNew, merged, "new folder introduced on both sides")
		case len(localOrder) > 0:
			merged := appendMissing(localOrder, childSet)
			return newStructureState(StructureNew, merged, "new folder introduced locally")
		case len(remoteOrder) > 0:
			merged := appendMissing(remoteOrder, childSet)
			return newStructureState(StructureNew, merged, "new folder introduced remotely")
		default:
			merged := appendMissing(nil, childSet)
			return newStructureState(StructureNew, merged, "new folder populated only by reparented children")
		}
	}

	localExists := m.local.Contains(parent)
	remoteExists := m.remote.Contains(parent)
	localChanged := localExists && !slices.Equal(localOrder, mirrorOrder)
	remoteChanged := remoteExists && !slices.Equal(remoteOrder, mirrorOrder)

	switch {
	case !localChanged && !remoteChanged && !forced:
		return newStructureState(StructureUnchanged, appendMissing(mirrorOrder, childSet), "")
	case localChanged && !remoteChanged && !forced:
		return newStructureState(StructureLocal, appendMissing(localOrder, childSet), "local reordered or added children")
	case !localChanged && remoteChanged && !forced:
		return newStructureState(StructureRemote, appendMissing(remoteOrder, childSet), "remote reordered or added children")
	default:
		merged := m.topologicalMerge(localOrder, remoteOrder)
		merged = appendMissing(merged, childSet)
		reason := "both sides changed children"
		if forced {
			reason = "children reparented in from a deleted folder"
		}
		return newStructureState(StructureNew, merged, reason)
	}
}

// topologicalMerge produces an order consistent with both local and
// remote's "appears-before" relation (a Kahn's-algorithm toposort over
// the union of each side's successor edges). When the two sides impose a
// genuinely conflicting order on some pair, remote wins: ready nodes are
// always picked in remote-position order first, then local-position
// order, then lexical GUID as a last, fully deterministic tiebreak. The
// same tiebreak orders brand-new, otherwise-unordered siblings.
func (m *merger) topologicalMerge(local, remote []syncids.GUID) []syncids.GUID {
	indeg := make(map[syncids.GUID]int)
	succ := make(map[syncids.GUID][]syncids.GUID)
	ensure := func(g syncids.GUID) {
		if _, ok := indeg[g]; !ok {
			indeg[g] = 0
		}
	}
	addSeq := func(seq []syncids.GUID) {
		for _, g := range seq {
			ensure(g)
		}
		for i := 0; i+1 < len(seq); i++ {
			a, b := seq[i], seq[i+1]
			succ[a] = append(succ[a], b)
			indeg[b]++
		}
	}
	addSeq(local)
	addSeq(remote)

	remotePos := indexOf(remote)
	localPos := indexOf(local)
	priority := func(a, b syncids.GUID) bool {
		if pa, ok := remotePos[a]; ok {
			if pb, ok := remotePos[b]; ok {
				return pa < pb
			}
			return true
		}
		if _, ok := remotePos[b]; ok {
			return false
		}
		if pa, ok := localPos[a]; ok {
			if pb, ok := localPos[b]; ok {
				return pa < pb
			}
			return true
		}
		if _, ok := localPos[b]; ok {
			return false
		}
		return a < b
	}

	total := len(indeg)
	removed := make(map[syncids.GUID]struct{}, total)
	result := make([]syncids.GUID, 0, total)

	for len(result) < total {
		var avail []syncids.GUID
		for g, d := range indeg {
			if d == 0 {
				if _, gone := removed[g]; !gone {
					avail = append(avail, g)
				}
			}
		}
		if len(avail) == 0 {
			// A genuine cycle between local's and remote's orderings:
			// break it in remote's favour by forcing the next pick
			// regardless of outstanding indegree.
			for g := range indeg {
				if _, gone := removed[g]; !gone {
					avail = append(avail, g)
				}
			}
		}
		sort.Slice(avail, func(i, j int) bool { return priority(avail[i], avail[j]) })
		next := avail[0]
		result = append(result, next)
		removed[next] = struct{}{}
		for _, s := range succ[next] {
			indeg[s]--
		}
	}
	return result
}

func indexOf(seq []syncids.GUID) map[syncids.GUID]int {
	out := make(map[syncids.GUID]int, len(seq))
	for i, g := range seq {
		out[g] = i
	}
	return out
}

func filterToSet(seq []syncids.GUID, set map[syncids.GUID]struct{}) []syncids.GUID {
	if len(seq) == 0 {
		return nil
	}
	out := make([]syncids.GUID, 0, len(seq))
	for _, g := range seq {
		if _, ok := set[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// appendMissing guarantees every member of childSet appears in the final
// order, appending any not already present (deterministically, by GUID)
// as a defensive backstop against gaps elsewhere in the decision logic.
func appendMissing(existing []syncids.GUID, childSet map[syncids.GUID]struct{}) []syncids.GUID {
	have := make(map[syncids.GUID]struct{}, len(existing))
	for _, g := range existing {
		have[g] = struct{}{}
	}
	var missing []syncids.GUID
	for g := range childSet {
		if _, ok := have[g]; !ok {
			missing = append(missing, g)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return append(existing, missing...)
}
