package syncids

import "slices"

// Record is the invariant per-node value record carried by LOCAL, MIRROR
// and BUFFER alike. Optional fields are pointers so that "absent" and
// "empty string" stay distinguishable, matching the record shape in the
// specification's data model.
type Record struct {
	GUID           GUID
	Type           NodeType
	ServerModified int64 // millis; 0 if never synced
	IsDeleted      bool
	HasDupe        bool

	ParentID   *GUID
	ParentName *string

	FeedURI     *string
	SiteURI     *string
	Pos         *int
	Title       *string
	Description *string
	BookmarkURI *string
	Tags        []string
	Keyword     *string
	FolderName  *string
	QueryID     *string

	// Children is the ordered list of child GUIDs. Only meaningful for
	// folders; nil for every other node type.
	Children []GUID

	// Internal metadata. Excluded from SameAs and never transmitted.
	FaviconID     *int64
	LocalModified int64
	SyncStatus    SyncStatus
}

// Normalize rewrites GUID and ParentID through NormalizeRootGUID, as
// required at construction time for every incoming record kind.
func (r Record) Normalize() Record {
	r.GUID = NormalizeRootGUID(r.GUID)
	r.ParentID = NormalizeRootGUIDPtr(r.ParentID)
	return r
}

// SameAs reports content equality: every field except GUID and the
// internal-metadata fields (FaviconID, LocalModified, SyncStatus, HasDupe)
// must match, including the child-GUID list element-wise. HasDupe marks a
// record as a dedupe candidate rather than describing its content, so two
// otherwise-identical records must compare equal regardless of which side
// (if either) was flagged. This is the comparison used to detect
// duplicate folders carrying distinct GUIDs, among other conflict checks.
func (r Record) SameAs(other Record) bool {
	if r.Type != other.Type {
		return false
	}
	if r.ServerModified != other.ServerModified {
		return false
	}
	if r.IsDeleted != other.IsDeleted {
		return false
	}
	if !guidPtrEqual(r.ParentID, other.ParentID) {
		return false
	}
	if !strPtrEqual(r.ParentName, other.ParentName) {
		return false
	}
	if !strPtrEqual(r.FeedURI, other.FeedURI) {
		return false
	}
	if !strPtrEqual(r.SiteURI, other.SiteURI) {
		return false
	}
	if !intPtrEqual(r.Pos, other.Pos) {
		return false
	}
	if !strPtrEqual(r.Title, other.Title) {
		return false
	}
	if !strPtrEqual(r.Description, other.Description) {
		return false
	}
	if !strPtrEqual(r.BookmarkURI, other.BookmarkURI) {
		return false
	}
	if !slices.Equal(r.Tags, other.Tags) {
		return false
	}
	if !strPtrEqual(r.Keyword, other.Keyword) {
		return false
	}
	if !strPtrEqual(r.FolderName, other.FolderName) {
		return false
	}
	if !strPtrEqual(r.QueryID, other.QueryID) {
		return false
	}
	return slices.Equal(r.Children, other.Children)
}

func guidPtrEqual(a, b *GUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Tombstone is the deleted-record shape: {id, deleted: true, type}.
type Tombstone struct {
	GUID GUID
	Type NodeType
}

// AsRecord renders a tombstone as the deleted record it represents, for
// code paths that deal uniformly in Records.
func (t Tombstone) AsRecord() Record {
	return Record{GUID: t.GUID, Type: t.Type, IsDeleted: true}
}
