// Package db wraps the SQLite summary store. The ETL writes each summary
// table wholesale (replace, not append); the dashboard reads with point
// lookups. Schema lives in migrations/ and is applied with golang-migrate.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the summary store connection.
type DB struct {
	*sql.DB

	// Path is the database file path, kept for the admin debug surface.
	Path string
}

// StoreError reports a store that cannot be opened or written. Fatal: the
// run aborts rather than producing a partial store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewDB opens (creating if needed) the SQLite store at path. WAL keeps the
// dashboard's concurrent readers off the writer's back during a rebuild.
func NewDB(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, p := range pragmas {
		if _, err := sqldb.Exec(p); err != nil {
			sqldb.Close()
			return nil, &StoreError{Op: "configure", Err: err}
		}
	}

	return &DB{DB: sqldb, Path: path}, nil
}
