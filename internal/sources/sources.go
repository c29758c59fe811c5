// Package sources defines the uniform read contract the merger uses to
// look up value records lazily, without caring whether they live in
// LOCAL, MIRROR or BUFFER storage.
package sources

import (
	"context"
	"errors"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// ErrNotFound is returned by Get when guid cannot be resolved. It is not
// itself fatal: callers degrade the affected subtree to an Unknown leaf
// and log, per the error-handling design.
var ErrNotFound = errors.New("sources: item not found")

// ItemSource is satisfied by LocalItemSource, MirrorItemSource and
// BufferItemSource alike; the merger depends only on this shape.
type ItemSource interface {
	// Get resolves a single GUID, or returns ErrNotFound.
	Get(ctx context.Context, guid syncids.GUID) (syncids.Record, error)

	// GetBatch resolves as many of guids as it can; unresolved GUIDs are
	// simply absent from the result, never an error.
	GetBatch(ctx context.Context, guids []syncids.GUID) (map[syncids.GUID]syncids.Record, error)

	// Prefetch hints that guids will likely be read soon. It must be
	// idempotent and side-effect-free beyond the source's own cache.
	Prefetch(ctx context.Context, guids []syncids.GUID) error
}

// LocalItemSource reads from the client's LOCAL table.
type LocalItemSource interface{ ItemSource }

// MirrorItemSource reads from the client's MIRROR table.
type MirrorItemSource interface{ ItemSource }

// BufferItemSource reads from the staged, not-yet-merged BUFFER table.
type BufferItemSource interface{ ItemSource }

// Sources bundles the three item sources the merger needs for one pass.
type Sources struct {
	Local  LocalItemSource
	Mirror MirrorItemSource
	Buffer BufferItemSource
}
