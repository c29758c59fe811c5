// Package tree materialises rows from a single source (local, mirror or
// buffer) into a BookmarkTree: an in-memory, parent/child-mapped view
// ready for the three-way merger to walk.
package tree

import "github.com/dastanaron/bookmarks-sync/internal/syncids"

// Node is the tree-node sum type: a folder carrying ordered children, a
// non-folder leaf, or an Unknown placeholder for a GUID referenced by a
// parent but not yet materialised from its item source. It is modelled as
// a tagged interface rather than a struct with an embedded back-pointer,
// so that cyclic parent/child references can never be expressed by
// construction: a Node only ever knows its own GUID and (if a folder) its
// children by value, never its parent.
type Node interface {
	GUID() syncids.GUID
	node()
}

// Folder is a Node that may own ordered children.
type Folder struct {
	guid     syncids.GUID
	Children []syncids.GUID
}

// NewFolder constructs a Folder leaf with no children yet.
func NewFolder(guid syncids.GUID) *Folder { return &Folder{guid: guid} }

func (f *Folder) GUID() syncids.GUID { return f.guid }
func (f *Folder) node()              {}

// NonFolder is any non-container node: bookmark, separator, livemark,
// query or dynamic container.
type NonFolder struct {
	guid syncids.GUID
}

// NewNonFolder constructs a NonFolder leaf.
func NewNonFolder(guid syncids.GUID) *NonFolder { return &NonFolder{guid: guid} }

func (n *NonFolder) GUID() syncids.GUID { return n.guid }
func (n *NonFolder) node()              {}

// Unknown models a GUID that some parent's children list references but
// that has not (yet) been resolved via the item source. It carries no
// type information and is never itself a folder.
type Unknown struct {
	guid syncids.GUID
}

// NewUnknown constructs an Unknown placeholder.
func NewUnknown(guid syncids.GUID) *Unknown { return &Unknown{guid: guid} }

func (u *Unknown) GUID() syncids.GUID { return u.guid }
func (u *Unknown) node()              {}

// IsFolder reports whether n is a *Folder.
func IsFolder(n Node) bool {
	_, ok := n.(*Folder)
	return ok
}

// ChildrenOf returns the ordered children of n if it is a folder, or nil
// otherwise.
func ChildrenOf(n Node) []syncids.GUID {
	if f, ok := n.(*Folder); ok {
		return f.Children
	}
	return nil
}
