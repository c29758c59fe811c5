// Package result converts a merged tree into the four operation sets the
// applier needs to drive the rest of a sync pass: what to upload, what to
// drop from the incoming buffer, what to stamp into the mirror, and what
// to remove from LOCAL.
//
// Mirrors the teacher's command split: gather the whole picture, run one
// pure transform over it, then do the writes. Build plays that pure
// transform role for a merge result instead of an HTML file.
package result

import (
	"github.com/dastanaron/bookmarks-sync/internal/merge"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// UpstreamCompletionOp carries the records the applier must POST upstream.
type UpstreamCompletionOp struct {
	Records []syncids.Record
}

// POSTResult is the uploader's report of what happened to an
// UpstreamCompletionOp: a server-assigned modified timestamp, the GUIDs
// that landed, and a reason string for each that didn't.
type POSTResult struct {
	Modified int64
	Success  []syncids.GUID
	Failed   map[syncids.GUID]string
}

// BufferCompletionOp names every incoming buffer record the merge
// consumed, so the applier can clear them once the pass commits.
type BufferCompletionOp struct {
	ProcessedBufferGUIDs map[syncids.GUID]struct{}
}

// LocalDeletionOp names LOCAL GUIDs to remove outright, bypassing the
// mirror/upstream write path entirely: these never existed on the
// remote side (a local-only folder collapsed into a remote duplicate
// during merge), so uploading a deletion for them would tell the
// server to delete a GUID it never heard of.
type LocalDeletionOp struct {
	GUIDs map[syncids.GUID]struct{}
}

// LocalOverrideCompletionOp is what the applier writes into the mirror:
// value rows to copy in (split by which table they came from, since the
// write path differs only in provenance bookkeeping), GUIDs to delete
// from the mirror outright, and the per-GUID modified timestamp to stamp
// once the upload step reports one.
type LocalOverrideCompletionOp struct {
	MirrorValuesToCopyFromBuffer []syncids.Record
	MirrorValuesToCopyFromLocal  []syncids.Record
	MirrorItemsToDelete          map[syncids.GUID]struct{}
	ModifiedTimes                map[syncids.GUID]int64
}

// StampModified fills ModifiedTimes from a POSTResult: every GUID the
// upload reported as successful gets the server's modified timestamp.
// Called by the applier after step 4, before the step-5/6 commit.
func (op *LocalOverrideCompletionOp) StampModified(post POSTResult) {
	if op.ModifiedTimes == nil {
		op.ModifiedTimes = make(map[syncids.GUID]int64, len(post.Success))
	}
	for _, guid := range post.Success {
		op.ModifiedTimes[guid] = post.Modified
	}
}

// Result bundles the four operation sets produced from one merge pass.
type Result struct {
	Upstream      UpstreamCompletionOp
	Buffer        BufferCompletionOp
	LocalOverride LocalOverrideCompletionOp
	LocalDeletion LocalDeletionOp
}

// IsNoOp reports whether applying this result would change no persisted
// state, delegating to the merged tree's own no-op check: the result
// builder never introduces a change the merge didn't already decide on.
func IsNoOp(merged *merge.MergedTree) bool {
	return merged.IsNoOp()
}

// Build converts merged into the four operation sets described by the
// result-builder component: outgoing records for every Local/New node
// plus tombstones for deleteRemotely, the consumed-buffer GUID set, and
// the mirror value copies (with each record's ParentID/Pos rewritten to
// the merge's final decision before it is staged for the mirror write).
func Build(merged *merge.MergedTree) *Result {
	res := &Result{
		Buffer: BufferCompletionOp{ProcessedBufferGUIDs: make(map[syncids.GUID]struct{})},
		LocalOverride: LocalOverrideCompletionOp{
			MirrorItemsToDelete: merged.DeleteFromMirror,
			ModifiedTimes:       make(map[syncids.GUID]int64),
		},
		LocalDeletion: LocalDeletionOp{GUIDs: merged.DedupeDiscarded},
	}

	walkMerged(merged.Root, func(n *merge.MergedTreeNode, parent syncids.GUID, index int) {
		buildNodeOps(res, n, parent, index)
	})

	for guid := range merged.DeleteRemotely {
		tomb := syncids.Tombstone{GUID: guid, Type: merged.RemoteTombstoneTypes[guid]}
		res.Upstream.Records = append(res.Upstream.Records, tomb.AsRecord())
	}

	for guid := range merged.Nodes {
		if merged.Nodes[guid].Remote != nil {
			res.Buffer.ProcessedBufferGUIDs[guid] = struct{}{}
		}
	}
	for guid := range merged.DeleteFromMirror {
		res.Buffer.ProcessedBufferGUIDs[guid] = struct{}{}
	}

	return res
}

func buildNodeOps(res *Result, n *merge.MergedTreeNode, parent syncids.GUID, index int) {
	switch n.ValueState.Kind {
	case merge.ValueLocal, merge.ValueNew:
		res.Upstream.Records = append(res.Upstream.Records, *n.ValueState.Item)
	}

	if n.ValueState.Kind == merge.ValueUnchanged {
		return
	}

	rec := *n.ValueState.Item
	if !n.GUID.IsRoot() {
		p := parent
		rec.ParentID = &p
		idx := index
		rec.Pos = &idx
	}

	if n.Remote != nil {
		res.LocalOverride.MirrorValuesToCopyFromBuffer = append(res.LocalOverride.MirrorValuesToCopyFromBuffer, rec)
	} else {
		res.LocalOverride.MirrorValuesToCopyFromLocal = append(res.LocalOverride.MirrorValuesToCopyFromLocal, rec)
	}
}

// walkMerged visits every non-root node of the merged tree exactly once,
// reporting each node's merged parent GUID and its index among its merged
// siblings.
func walkMerged(n *merge.MergedTreeNode, visit func(*merge.MergedTreeNode, syncids.GUID, int)) {
	if n == nil {
		return
	}
	for i, child := range n.MergedChildren {
		visit(child, n.GUID, i)
		walkMerged(child, visit)
	}
}
