// Package migrations holds the SQL schema for the database backends
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// SQLite returns the migrations for the SQLite backend
func SQLite() fs.FS {
	sub, _ := fs.Sub(files, "sqlite")
	return sub
}

// Postgres returns the migrations for the PostgreSQL backend
func Postgres() fs.FS {
	sub, _ := fs.Sub(files, "postgres")
	return sub
}
