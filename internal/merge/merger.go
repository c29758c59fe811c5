package merge

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dastanaron/bookmarks-sync/internal/sources"
	"github.com/dastanaron/bookmarks-sync/internal/syncerr"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// merger holds the three read-only input trees and the lazy value-record
// caches built up over the course of one pass. It has no mutable state
// that survives past a single Merge call.
type merger struct {
	ctx context.Context

	local  *tree.BookmarkTree
	mirror *tree.BookmarkTree
	remote *tree.BookmarkTree

	src sources.Sources
	log *zap.Logger

	localCache  map[syncids.GUID]syncids.Record
	mirrorCache map[syncids.GUID]syncids.Record
	remoteCache map[syncids.GUID]syncids.Record

	conflicts []string
}

// Merge performs the three-way merge described by the component-D
// decision rules: value state, structure state, deletion-vs-modification
// conflicts with lowest-surviving-ancestor reparenting, root handling,
// orphan handling, duplicate-folder matching and favicon preservation.
func Merge(ctx context.Context, local, mirror, remote *tree.BookmarkTree, src sources.Sources, log *zap.Logger) (*MergedTree, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &merger{
		ctx: ctx, local: local, mirror: mirror, remote: remote, src: src, log: log,
		localCache:  make(map[syncids.GUID]syncids.Record),
		mirrorCache: make(map[syncids.GUID]syncids.Record),
		remoteCache: make(map[syncids.GUID]syncids.Record),
	}

	dedupeMatches, err := m.findDuplicateFolderMatches()
	if err != nil {
		return nil, err
	}
	discarded := make(map[syncids.GUID]struct{}, len(dedupeMatches))
	for localGUID := range dedupeMatches {
		discarded[localGUID] = struct{}{}
	}

	universe := m.buildUniverse(discarded)

	deletions, err := m.resolveDeletions(universe)
	if err != nil {
		return nil, err
	}

	forcedParent, forcedOrder, err := m.reparentOrphansOfDeletedFolders(deletions)
	if err != nil {
		return nil, err
	}

	survivors := make(map[syncids.GUID]struct{}, len(universe))
	for guid := range universe {
		if _, gone := deletions.gone[guid]; gone {
			continue
		}
		survivors[guid] = struct{}{}
	}

	mergedParent, err := m.resolveParents(universe, deletions.gone, dedupeMatches, forcedParent)
	if err != nil {
		return nil, err
	}
	m.fallbackUnresolvedToUnfiled(mergedParent, survivors)

	childrenByParent := make(map[syncids.GUID][]syncids.GUID)
	for guid := range survivors {
		if guid == syncids.RootGUID {
			continue
		}
		parent := mergedParent[guid]
		childrenByParent[parent] = append(childrenByParent[parent], guid)
	}

	nodes := make(map[syncids.GUID]*MergedTreeNode)
	root, err := m.buildNode(syncids.RootGUID, childrenByParent, forcedOrder, nodes)
	if err != nil {
		return nil, err
	}

	tombstoneTypes := make(map[syncids.GUID]syncids.NodeType, len(deletions.deleteRemotely))
	for guid := range deletions.deleteRemotely {
		tombstoneTypes[guid] = m.lastKnownType(guid)
	}

	result := &MergedTree{
		Root:                 root,
		Nodes:                nodes,
		DeleteLocally:        deletions.deleteLocally,
		DeleteRemotely:       deletions.deleteRemotely,
		DeleteFromMirror:     deletions.deleteFromMirror,
		AcceptLocalDeletion:  deletions.acceptLocalDeletion,
		AcceptRemoteDeletion: deletions.acceptRemoteDeletion,
		RemoteTombstoneTypes: tombstoneTypes,
		DedupeDiscarded:      discarded,
		Conflicts:            m.conflicts,
	}
	return result, nil
}

// lastKnownType reports guid's node kind from whichever input tree still
// has it as a live node, preferring the mirror's baseline view since
// that is what every side agreed on before the deletion happened.
func (m *merger) lastKnownType(guid syncids.GUID) syncids.NodeType {
	for _, side := range []*tree.BookmarkTree{m.mirror, m.remote, m.local} {
		if side == nil {
			continue
		}
		if n := side.Get(guid); n != nil {
			if tree.IsFolder(n) {
				return syncids.TypeFolder
			}
			return syncids.TypeBookmark
		}
	}
	return syncids.TypeBookmark
}

func (m *merger) logConflict(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.conflicts = append(m.conflicts, msg)
	m.log.Info("merge conflict resolved", zap.String("detail", msg))
}

// fetch resolves guid's Record from side via source, caching the result.
// A tree that does not contain guid at all returns (zero, false, nil): it
// simply has nothing to say about this GUID. A source NotFound for a GUID
// the tree claims to contain is recoverable: it is logged and treated as
// absent, per the error-handling design's NotFound->Unknown-leaf rule.
func (m *merger) fetch(side *tree.BookmarkTree, cache map[syncids.GUID]syncids.Record, src sources.ItemSource, guid syncids.GUID) (syncids.Record, bool, error) {
	if side == nil || !side.Contains(guid) {
		return syncids.Record{}, false, nil
	}
	if r, ok := cache[guid]; ok {
		return r, true, nil
	}
	r, err := src.Get(m.ctx, guid)
	if err != nil {
		if errors.Is(err, sources.ErrNotFound) {
			m.log.Warn("item source could not resolve referenced guid; degrading to absent",
				zap.String("guid", string(guid)))
			return syncids.Record{}, false, nil
		}
		return syncids.Record{}, false, syncerr.Wrap(syncerr.IOFailure, fmt.Sprintf("fetching %s", guid))
	}
	cache[guid] = r
	return r, true, nil
}

func (m *merger) fetchLocal(guid syncids.GUID) (syncids.Record, bool, error) {
	return m.fetch(m.local, m.localCache, m.src.Local, guid)
}

func (m *merger) fetchMirror(guid syncids.GUID) (syncids.Record, bool, error) {
	return m.fetch(m.mirror, m.mirrorCache, m.src.Mirror, guid)
}

func (m *merger) fetchRemote(guid syncids.GUID) (syncids.Record, bool, error) {
	return m.fetch(m.remote, m.remoteCache, m.src.Buffer, guid)
}

// buildUniverse unions every live or tombstoned GUID across the three
// trees, minus the canonical roots (handled specially by buildNode) and
// minus any GUID discarded by duplicate-folder matching.
func (m *merger) buildUniverse(discarded map[syncids.GUID]struct{}) map[syncids.GUID]struct{} {
	universe := make(map[syncids.GUID]struct{})
	add := func(t *tree.BookmarkTree) {
		if t == nil {
			return
		}
		for guid := range t.Lookup {
			universe[guid] = struct{}{}
		}
		for guid := range t.Deleted {
			universe[guid] = struct{}{}
		}
	}
	add(m.local)
	add(m.mirror)
	add(m.remote)

	for _, root := range syncids.AllRootGUIDs {
		delete(universe, root)
	}
	for guid := range discarded {
		delete(universe, guid)
	}
	return universe
}
