// Package merge walks LOCAL, MIRROR and REMOTE in parallel and produces a
// MergedTree: one decision per reachable GUID about whose value and whose
// child ordering wins, plus the five deletion sets the result builder
// needs.
package merge

import (
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// ValueStateKind names which side's value record a merged node carries.
type ValueStateKind int

const (
	ValueUnchanged ValueStateKind = iota
	ValueLocal
	ValueRemote
	ValueNew
)

func (k ValueStateKind) String() string {
	switch k {
	case ValueUnchanged:
		return "Unchanged"
	case ValueLocal:
		return "Local"
	case ValueRemote:
		return "Remote"
	case ValueNew:
		return "New"
	default:
		return "Unknown"
	}
}

// ValueState is the value-state decision for one merged node.
type ValueState struct {
	Kind ValueStateKind
	// Item is the record the node carries: the local record for
	// ValueLocal, the remote record for ValueRemote, and for ValueNew a
	// record belonging to neither an existing local nor existing mirror
	// row. It is nil for ValueUnchanged.
	Item *syncids.Record
	// Reason is a short, loggable explanation of the decision, set for
	// conflict resolutions and plain one-sided decisions alike.
	Reason string
}

// StructureStateKind names whose child ordering a merged folder carries.
type StructureStateKind int

const (
	StructureUnchanged StructureStateKind = iota
	StructureLocal
	StructureRemote
	StructureNew
)

func (k StructureStateKind) String() string {
	switch k {
	case StructureUnchanged:
		return "Unchanged"
	case StructureLocal:
		return "Local"
	case StructureRemote:
		return "Remote"
	case StructureNew:
		return "New"
	default:
		return "Unknown"
	}
}

// StructureState is the child-ordering decision for one merged folder.
type StructureState struct {
	Kind     StructureStateKind
	Children []syncids.GUID // the merged child order actually adopted
	Reason   string
}

// MergedTreeNode is one node of the merged tree: pointers to whichever
// input-tree nodes exist for this GUID, the two decisions, and the
// already-decided merged children.
type MergedTreeNode struct {
	GUID syncids.GUID

	Local  tree.Node
	Mirror tree.Node
	Remote tree.Node

	ValueState     ValueState
	StructureState StructureState

	MergedChildren []*MergedTreeNode
}

// HasDecidedChildren reports whether this node's children have been
// placed (always true once MergedChildren is non-nil or the node is
// known to be a leaf).
func (n *MergedTreeNode) HasDecidedChildren() bool {
	return n.MergedChildren != nil || !n.isFolder()
}

func (n *MergedTreeNode) isFolder() bool {
	if n.Local != nil {
		if tree.IsFolder(n.Local) {
			return true
		}
	}
	if n.Mirror != nil && tree.IsFolder(n.Mirror) {
		return true
	}
	if n.Remote != nil && tree.IsFolder(n.Remote) {
		return true
	}
	return false
}

// MergedTree is the full output of one merge pass.
type MergedTree struct {
	Root *MergedTreeNode

	// Nodes indexes every merged node by GUID for O(1) lookup.
	Nodes map[syncids.GUID]*MergedTreeNode

	DeleteLocally        map[syncids.GUID]struct{}
	DeleteRemotely        map[syncids.GUID]struct{}
	DeleteFromMirror      map[syncids.GUID]struct{}
	AcceptLocalDeletion   map[syncids.GUID]struct{}
	AcceptRemoteDeletion  map[syncids.GUID]struct{}

	// RemoteTombstoneTypes names the node type of every GUID in
	// DeleteRemotely, looked up from whichever input tree last knew it
	// as a live node (mirror, then remote, then local). A tombstone
	// carries only {guid, type}, never a full record, so this is all
	// the result builder needs to upload one.
	RemoteTombstoneTypes map[syncids.GUID]syncids.NodeType

	// DedupeDiscarded holds local-only GUIDs collapsed into a
	// content-identical remote GUID during duplicate-folder matching.
	// These never existed on the remote side, so they are removed from
	// LOCAL outright rather than uploaded as a deletion.
	DedupeDiscarded map[syncids.GUID]struct{}

	// Conflicts is a log of every decision that required breaking a tie,
	// for the applier to surface/record; never fatal.
	Conflicts []string
}

// AllGUIDs returns every GUID present in the merged tree (i.e. surviving
// the merge), independent of position.
func (t *MergedTree) AllGUIDs() map[syncids.GUID]struct{} {
	out := make(map[syncids.GUID]struct{}, len(t.Nodes))
	for guid := range t.Nodes {
		out[guid] = struct{}{}
	}
	return out
}

// IsNoOp reports whether applying this merge result would change no
// persisted state: every value/structure state is Unchanged and every
// deletion set is empty.
func (t *MergedTree) IsNoOp() bool {
	if len(t.DeleteLocally) > 0 || len(t.DeleteRemotely) > 0 || len(t.DeleteFromMirror) > 0 {
		return false
	}
	if len(t.DedupeDiscarded) > 0 {
		return false
	}
	for _, n := range t.Nodes {
		if n.ValueState.Kind != ValueUnchanged {
			return false
		}
		if n.StructureState.Kind != StructureUnchanged {
			return false
		}
	}
	return true
}

func newValueState(kind ValueStateKind, item *syncids.Record, reason string) ValueState {
	return ValueState{Kind: kind, Item: item, Reason: reason}
}

func newStructureState(kind StructureStateKind, children []syncids.GUID, reason string) StructureState {
	return StructureState{Kind: kind, Children: children, Reason: reason}
}
