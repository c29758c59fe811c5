package syncids

import "encoding/json"

// wireRecord is the JSON shape exchanged with the sync server. Field names
// match the specification's record shape; guid and parentid may still
// arrive using a historical short root name and are normalised on decode.
type wireRecord struct {
	GUID           GUID     `json:"id"`
	Type           NodeType `json:"type"`
	ServerModified int64    `json:"modified,omitempty"`
	IsDeleted      bool     `json:"deleted,omitempty"`
	HasDupe        bool     `json:"hasDupe,omitempty"`

	ParentID   *GUID   `json:"parentid,omitempty"`
	ParentName *string `json:"parentName,omitempty"`

	FeedURI     *string  `json:"feedUri,omitempty"`
	SiteURI     *string  `json:"siteUri,omitempty"`
	Pos         *int     `json:"pos,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	BookmarkURI *string  `json:"bmkUri,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Keyword     *string  `json:"keyword,omitempty"`
	FolderName  *string  `json:"folderName,omitempty"`
	QueryID     *string  `json:"queryId,omitempty"`
	Children    []GUID   `json:"children,omitempty"`
}

// UnmarshalJSON normalises the root-GUID fields as part of decoding, so
// every record decoded from JSON goes through the same normalisation rule
// without a second pass over the tree. Records built by other means (the
// HTML parser, SQLite row scans) do not pass through here.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		GUID:           NormalizeRootGUID(w.GUID),
		Type:           w.Type,
		ServerModified: w.ServerModified,
		IsDeleted:      w.IsDeleted,
		HasDupe:        w.HasDupe,
		ParentID:       NormalizeRootGUIDPtr(w.ParentID),
		ParentName:     w.ParentName,
		FeedURI:        w.FeedURI,
		SiteURI:        w.SiteURI,
		Pos:            w.Pos,
		Title:          w.Title,
		Description:    w.Description,
		BookmarkURI:    w.BookmarkURI,
		Tags:           w.Tags,
		Keyword:        w.Keyword,
		FolderName:     w.FolderName,
		QueryID:        w.QueryID,
		Children:       w.Children,
	}
	return nil
}

// MarshalJSON emits the wire shape used to POST records upstream.
// Internal metadata (FaviconID, LocalModified, SyncStatus) is never
// transmitted.
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		GUID:           r.GUID,
		Type:           r.Type,
		ServerModified: r.ServerModified,
		IsDeleted:      r.IsDeleted,
		HasDupe:        r.HasDupe,
		ParentID:       r.ParentID,
		ParentName:     r.ParentName,
		FeedURI:        r.FeedURI,
		SiteURI:        r.SiteURI,
		Pos:            r.Pos,
		Title:          r.Title,
		Description:    r.Description,
		BookmarkURI:    r.BookmarkURI,
		Tags:           r.Tags,
		Keyword:        r.Keyword,
		FolderName:     r.FolderName,
		QueryID:        r.QueryID,
		Children:       r.Children,
	}
	return json.Marshal(w)
}
