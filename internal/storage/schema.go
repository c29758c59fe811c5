package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// sides are the three value tables the merger reads and writes, each
// paired with its own structure table.
var sides = []string{"local", "mirror", "buffer"}

func initSchema(db *sql.DB) error {
	for _, side := range sides {
		if _, err := db.Exec(valueTableDDL(valueTable(side))); err != nil {
			return fmt.Errorf("creating %s: %w", valueTable(side), err)
		}
		if _, err := db.Exec(structureTableDDL(structureTable(side))); err != nil {
			return fmt.Errorf("creating %s: %w", structureTable(side), err)
		}
	}
	if _, err := db.Exec(faviconsDDL); err != nil {
		return fmt.Errorf("creating favicons: %w", err)
	}

	// Migration: has_dupe postdates the original schema; add it to any
	// value table that predates it. SQLite has no ADD COLUMN IF NOT
	// EXISTS, so check pragma_table_info first, same as the teacher's
	// icon-column migration.
	for _, side := range sides {
		if err := ensureColumn(db, valueTable(side), "has_dupe", "INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}

func valueTable(side string) string     { return "bookmarks_" + side }
func structureTable(side string) string { return "bookmarks_" + side + "_structure" }

func valueTableDDL(table string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		guid TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		server_modified INTEGER NOT NULL DEFAULT 0,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		has_dupe INTEGER NOT NULL DEFAULT 0,
		parent_id TEXT,
		parent_name TEXT,
		feed_uri TEXT,
		site_uri TEXT,
		pos INTEGER,
		title TEXT,
		description TEXT,
		bookmark_uri TEXT,
		tags_json TEXT,
		keyword TEXT,
		folder_name TEXT,
		query_id TEXT,
		favicon_id INTEGER,
		local_modified INTEGER NOT NULL DEFAULT 0,
		sync_status TEXT NOT NULL DEFAULT 'synced'
	);
	CREATE INDEX IF NOT EXISTS idx_%s_sync_status ON %s(sync_status);
	`, table, table, table)
}

func structureTableDDL(table string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		parent TEXT NOT NULL,
		child TEXT NOT NULL,
		idx INTEGER NOT NULL,
		PRIMARY KEY(parent, child)
	);
	CREATE INDEX IF NOT EXISTS idx_%s_parent ON %s(parent, idx);
	`, table, table, table)
}

const faviconsDDL = `
CREATE TABLE IF NOT EXISTS favicons (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT NOT NULL,
	width INTEGER,
	height INTEGER,
	type TEXT,
	date INTEGER
);
`

func ensureColumn(db *sql.DB, table, column, ddl string) error {
	var count int
	err := db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?`, table), column,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		_, err = db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, ddl))
		return err
	}
	return nil
}
