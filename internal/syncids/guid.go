// Package syncids defines the stable identifiers and value-record shapes
// shared by the local, mirror and buffer trees.
package syncids

import (
	"encoding/base32"
	"fmt"

	"github.com/google/uuid"
)

// GUID is a stable 12-character identifier for a bookmark node.
type GUID string

// GUIDLen is the fixed length of every persisted or transmitted GUID.
const GUIDLen = 12

// Canonical root GUIDs. These five are well-known and never change.
const (
	RootGUID     GUID = "root________"
	MenuGUID     GUID = "menu________"
	ToolbarGUID  GUID = "toolbar_____"
	UnfiledGUID  GUID = "unfiled_____"
	MobileGUID   GUID = "mobile______"
	DesktopGUID  GUID = "desktop_____" // pseudo-root, never persisted or transmitted
)

// CanonicalRootChildren is the root's four canonical children, in the
// order they must always appear under the root.
var CanonicalRootChildren = []GUID{MenuGUID, ToolbarGUID, UnfiledGUID, MobileGUID}

// AllRootGUIDs includes the pseudo-root, for membership checks that must
// also reject desktop_____ from ever being written out.
var AllRootGUIDs = []GUID{RootGUID, MenuGUID, ToolbarGUID, UnfiledGUID, MobileGUID, DesktopGUID}

// IsRoot reports whether g is one of the well-known roots (including the
// pseudo-root).
func (g GUID) IsRoot() bool {
	for _, r := range AllRootGUIDs {
		if g == r {
			return true
		}
	}
	return false
}

// Valid reports whether g has the shape of a persistable GUID: exactly
// GUIDLen bytes. desktop_____ is a valid shape but callers that are about
// to persist or transmit a record must reject it separately.
func (g GUID) Valid() bool {
	return len(g) == GUIDLen
}

func (g GUID) String() string {
	return string(g)
}

// NewGUID mints a fresh 12-character opaque GUID. Entropy comes from
// uuid.New() rather than a hand-rolled random source; the 16 raw bytes are
// base32-encoded and truncated to GUIDLen, matching the shape (but not the
// algorithm) of upstream sync GUIDs.
func NewGUID() GUID {
	id := uuid.New()
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(id[:])
	if len(encoded) < GUIDLen {
		// uuid.New() always yields 16 bytes -> 26 base32 chars, so this is
		// unreachable, but fail loudly rather than return a short GUID.
		panic(fmt.Sprintf("syncids: generated GUID too short: %q", encoded))
	}
	return GUID(encoded[:GUIDLen])
}
