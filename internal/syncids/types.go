package syncids

// NodeType enumerates the kinds of node that can appear in a bookmark
// tree. Folders are the only type that may carry children.
type NodeType string

const (
	TypeBookmark         NodeType = "bookmark"
	TypeFolder           NodeType = "folder"
	TypeSeparator        NodeType = "separator"
	TypeDynamicContainer NodeType = "dynamic-container"
	TypeLivemark         NodeType = "livemark"
	TypeQuery            NodeType = "query"
)

// IsFolder reports whether nodes of this type may have children.
func (t NodeType) IsFolder() bool {
	return t == TypeFolder
}

// SyncStatus is the per-row status column tracked by BookmarksLocal.
type SyncStatus string

const (
	StatusSynced  SyncStatus = "synced"
	StatusNew     SyncStatus = "new"
	StatusChanged SyncStatus = "changed"
)
