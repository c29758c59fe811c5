package storage

import (
	"database/sql"
	"encoding/json"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const recordColumns = `guid, type, server_modified, is_deleted, has_dupe, parent_id, parent_name,
	feed_uri, site_uri, pos, title, description, bookmark_uri, tags_json, keyword,
	folder_name, query_id, favicon_id, local_modified, sync_status`

func scanRecord(row rowScanner) (syncids.Record, error) {
	var r syncids.Record
	var isDeleted, hasDupe int
	var syncStatus string
	var parentID, parentName, feedURI, siteURI, title, description, bookmarkURI, tagsJSON, keyword, folderName, queryID sql.NullString
	var pos, faviconID sql.NullInt64

	err := row.Scan(
		&r.GUID, &r.Type, &r.ServerModified, &isDeleted, &hasDupe, &parentID, &parentName,
		&feedURI, &siteURI, &pos, &title, &description, &bookmarkURI, &tagsJSON, &keyword,
		&folderName, &queryID, &faviconID, &r.LocalModified, &syncStatus,
	)
	if err != nil {
		return syncids.Record{}, err
	}

	r.IsDeleted = isDeleted != 0
	r.HasDupe = hasDupe != 0
	r.SyncStatus = syncids.SyncStatus(syncStatus)

	if parentID.Valid {
		g := syncids.GUID(parentID.String)
		r.ParentID = &g
	}
	r.ParentName = nullableString(parentName)
	r.FeedURI = nullableString(feedURI)
	r.SiteURI = nullableString(siteURI)
	r.Title = nullableString(title)
	r.Description = nullableString(description)
	r.BookmarkURI = nullableString(bookmarkURI)
	r.Keyword = nullableString(keyword)
	r.FolderName = nullableString(folderName)
	r.QueryID = nullableString(queryID)

	if pos.Valid {
		p := int(pos.Int64)
		r.Pos = &p
	}
	if faviconID.Valid {
		f := faviconID.Int64
		r.FaviconID = &f
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		_ = json.Unmarshal([]byte(tagsJSON.String), &r.Tags)
	}
	return r, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// upsertArgs renders r into the positional arguments for an
// INSERT OR REPLACE against recordColumns, in the same order.
func upsertArgs(r syncids.Record) ([]any, error) {
	var tagsJSON *string
	if len(r.Tags) > 0 {
		encoded, err := json.Marshal(r.Tags)
		if err != nil {
			return nil, err
		}
		s := string(encoded)
		tagsJSON = &s
	}

	return []any{
		r.GUID, r.Type, r.ServerModified, boolToInt(r.IsDeleted), boolToInt(r.HasDupe),
		guidPtrOrNil(r.ParentID), r.ParentName, r.FeedURI, r.SiteURI, r.Pos, r.Title,
		r.Description, r.BookmarkURI, tagsJSON, r.Keyword, r.FolderName, r.QueryID,
		r.FaviconID, r.LocalModified, string(r.SyncStatus),
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func guidPtrOrNil(g *syncids.GUID) any {
	if g == nil {
		return nil
	}
	return string(*g)
}
