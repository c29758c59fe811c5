// Package storage is the SQLite-backed row store behind LOCAL, MIRROR and
// BUFFER: three value tables plus their structure tables, a favicons
// table, and the item-source, tree-loader and atomic-commit
// implementations the merger and applier consume through interfaces.
//
// Grounded on the teacher's internal/repository/sqlite.go: a single
// *sql.DB, schema created by CREATE TABLE IF NOT EXISTS plus a
// pragma_table_info-driven migration, opened through database/sql and
// github.com/mattn/go-sqlite3 exactly as the teacher does.
package storage

import (
	"database/sql"

	"github.com/dastanaron/bookmarks-sync/internal/sources"
)

// Store owns the database connection and exposes it through the
// interfaces the merger, applier and commands packages depend on.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite database at path and ensures
// its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Local returns the ItemSource backed by bookmarks_local.
func (s *Store) Local() sources.ItemSource { return &itemSource{db: s.db, table: valueTable("local")} }

// Mirror returns the ItemSource backed by bookmarks_mirror.
func (s *Store) Mirror() sources.ItemSource {
	return &itemSource{db: s.db, table: valueTable("mirror")}
}

// Buffer returns the ItemSource backed by bookmarks_buffer.
func (s *Store) Buffer() sources.ItemSource {
	return &itemSource{db: s.db, table: valueTable("buffer")}
}

// Sources bundles all three item sources for one applier pass.
func (s *Store) Sources() sources.Sources {
	return sources.Sources{Local: s.Local(), Mirror: s.Mirror(), Buffer: s.Buffer()}
}
