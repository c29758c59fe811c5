package tree

import (
	"errors"
	"fmt"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// MalformedReason names why a structure could not be built into a tree.
type MalformedReason string

const (
	ReasonCycle            MalformedReason = "cycle"
	ReasonDuplicateParent  MalformedReason = "duplicate-parentage"
	ReasonNonFolderParent  MalformedReason = "non-folder-parent"
)

// ErrMalformed is the sentinel tree-builder error. Use newMalformedErr
// to construct one so the reason and offending GUID are attached.
var ErrMalformed = errors.New("tree: malformed structure")

// MalformedError carries the reason and the GUID(s) involved, for callers
// that want to log or test against specifics rather than just the
// sentinel.
type MalformedError struct {
	Reason MalformedReason
	GUID   syncids.GUID
	Parent syncids.GUID
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("tree: malformed structure (%s) at guid=%s parent=%s", e.Reason, e.GUID, e.Parent)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

func newMalformedErr(reason MalformedReason, guid, parent syncids.GUID) error {
	return &MalformedError{Reason: reason, GUID: guid, Parent: parent}
}
