package sqlstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/habitual/habitual/internal/migration"
	"github.com/habitual/habitual/migrations"
)

// NewSQLite returns a store backed by the database file at path
func NewSQLite(path string) *Store {
	return &Store{
		driver: migration.DriverSQLite,
		fs:     migrations.SQLite(),
		path:   path,
		open: func() (*sql.DB, error) {
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			db, err := sql.Open("sqlite", path)
			if err != nil {
				return nil, fmt.Errorf("failed to open database: %w", err)
			}
			return db, nil
		},
		exists: func() (bool, error) {
			_, err := os.Stat(path)
			if err == nil {
				return true, nil
			}
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		},
	}
}
