// Package applier drives one sync pass end to end: build the three trees,
// run the merger, build the result, post upstream, then commit the
// mirror/buffer write atomically. Gated at three points by a caller-
// supplied "green light" predicate.
//
// The shape follows the teacher's cmd/bookmarks-cli/main.go top-level
// orchestration: parse input, open storage, dispatch one operation,
// close storage.
package applier

import (
	"context"

	"go.uber.org/zap"

	"github.com/dastanaron/bookmarks-sync/internal/merge"
	"github.com/dastanaron/bookmarks-sync/internal/result"
	"github.com/dastanaron/bookmarks-sync/internal/sources"
	"github.com/dastanaron/bookmarks-sync/internal/syncerr"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// Stage names the three points in a pass where the green light is polled.
type Stage int

const (
	StageBeforeMerge Stage = iota
	StageBeforeUpload
	StageBeforeCommit
)

func (s Stage) String() string {
	switch s {
	case StageBeforeMerge:
		return "before-merge"
	case StageBeforeUpload:
		return "before-upload"
	case StageBeforeCommit:
		return "before-commit"
	default:
		return "unknown"
	}
}

// GreenLight is polled at each Stage; a false reading aborts the pass
// cleanly with no partial writes.
type GreenLight func(ctx context.Context, stage Stage) bool

// Outcome classifies how a pass ended.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeNoOp
	OutcomeAborted
)

// PassOutcome reports what happened and, when relevant, the operation
// sets and upload report that produced it.
type PassOutcome struct {
	Outcome Outcome
	Result  *result.Result
	Post    *result.POSTResult
}

// TreeLoader materialises the three input trees for one pass. Satisfied
// by internal/storage's SQLite-backed reader.
type TreeLoader interface {
	LoadLocal(ctx context.Context) (*tree.BookmarkTree, error)
	LoadMirror(ctx context.Context) (*tree.BookmarkTree, error)
	LoadBuffer(ctx context.Context) (*tree.BookmarkTree, error)
}

// Committer performs the single atomic write of steps 5 and 6: stamping
// the mirror with LocalOverrideCompletionOp, clearing
// BufferCompletionOp, and removing any LocalDeletionOp GUIDs from
// LOCAL, all in the same transaction.
type Committer interface {
	Commit(ctx context.Context, override result.LocalOverrideCompletionOp, buffer result.BufferCompletionOp, localDeletion result.LocalDeletionOp) error
}

// Uploader posts the outgoing records and reports what landed.
type Uploader interface {
	Post(ctx context.Context, op result.UpstreamCompletionOp) (result.POSTResult, error)
}

// Applier wires a TreeLoader, the merger's item sources, an Uploader and a
// Committer into one RunPass call.
type Applier struct {
	Trees    TreeLoader
	Sources  sources.Sources
	Uploader Uploader
	Storage  Committer
	Log      *zap.Logger
}

// RunPass executes one sync pass. It never returns a partially-applied
// state: either it commits, reports a clean no-op, or aborts before any
// write, per the concurrency model's cancellation guarantee.
func (a *Applier) RunPass(ctx context.Context, green GreenLight) (*PassOutcome, error) {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}

	if !green(ctx, StageBeforeMerge) {
		return &PassOutcome{Outcome: OutcomeAborted}, nil
	}

	local, err := a.Trees.LoadLocal(ctx)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.IOFailure, "loading local tree")
	}
	mirror, err := a.Trees.LoadMirror(ctx)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.IOFailure, "loading mirror tree")
	}
	remote, err := a.Trees.LoadBuffer(ctx)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.IOFailure, "loading buffer tree")
	}

	merged, err := merge.Merge(ctx, local, mirror, remote, a.Sources, log)
	if err != nil {
		return nil, err
	}

	res := result.Build(merged)
	if result.IsNoOp(merged) {
		return &PassOutcome{Outcome: OutcomeNoOp, Result: res}, nil
	}

	if !green(ctx, StageBeforeUpload) {
		return &PassOutcome{Outcome: OutcomeAborted}, nil
	}

	var post result.POSTResult
	if len(res.Upstream.Records) > 0 {
		post, err = a.Uploader.Post(ctx, res.Upstream)
		if err != nil {
			return nil, syncerr.Wrap(syncerr.IOFailure, "posting upstream op")
		}
	}
	res.LocalOverride.StampModified(post)

	if len(post.Failed) > 0 {
		res.LocalOverride.MirrorValuesToCopyFromBuffer = dropFailed(res.LocalOverride.MirrorValuesToCopyFromBuffer, post.Failed)
		res.LocalOverride.MirrorValuesToCopyFromLocal = dropFailed(res.LocalOverride.MirrorValuesToCopyFromLocal, post.Failed)
		for guid, reason := range post.Failed {
			log.Warn("upstream post failed; record stays pending for next pass",
				zap.String("guid", string(guid)), zap.String("reason", reason))
		}
	}

	if !green(ctx, StageBeforeCommit) {
		return &PassOutcome{Outcome: OutcomeAborted}, nil
	}

	if err := a.Storage.Commit(ctx, res.LocalOverride, res.Buffer, res.LocalDeletion); err != nil {
		return nil, syncerr.Wrap(syncerr.IOFailure, "committing mirror/buffer")
	}

	return &PassOutcome{Outcome: OutcomeCommitted, Result: res, Post: &post}, nil
}

// dropFailed removes any record whose GUID is a key of failed, so a
// partially-failed upload only stamps the mirror for records that
// actually landed server-side; the rest stay Changed/New in LOCAL.
func dropFailed(records []syncids.Record, failed map[syncids.GUID]string) []syncids.Record {
	if len(failed) == 0 {
		return records
	}
	out := make([]syncids.Record, 0, len(records))
	for _, r := range records {
		if _, bad := failed[r.GUID]; bad {
			continue
		}
		out = append(out, r)
	}
	return out
}
