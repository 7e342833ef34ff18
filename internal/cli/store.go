package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/habitual/habitual/internal/config"
	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/keyring"
	"github.com/habitual/habitual/internal/storage"
	"github.com/habitual/habitual/internal/storage/csvstore"
	"github.com/habitual/habitual/internal/storage/sqlstore"
)

// NewStore builds the storage provider selected by cfg. The PostgreSQL
// connection string comes from the config file, falling back to the OS keyring.
func NewStore(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Storage.Backend {
	case constants.BackendCSV:
		return csvstore.New(cfg.Storage.DataDir), nil
	case constants.BackendSQLite:
		return sqlstore.NewSQLite(filepath.Join(cfg.Storage.DataDir, constants.SQLiteFileName)), nil
	case constants.BackendPostgres:
		dsn, err := resolveDSN(cfg)
		if err != nil {
			return nil, err
		}
		return sqlstore.NewPostgres(dsn), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func resolveDSN(cfg *config.Config) (string, error) {
	if cfg.Storage.DSN != "" {
		if err := sqlstore.ValidateConnString(cfg.Storage.DSN); err != nil {
			if errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("storage.dsn must not embed a password, store it with 'habitual keyring set-dsn' or use .pgpass: %w", err)
			}
			return "", err
		}
		return cfg.Storage.DSN, nil
	}

	dsn, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", errors.New("no PostgreSQL connection string configured, set storage.dsn or run 'habitual keyring set-dsn'")
		}
		return "", err
	}
	// Credentials are allowed in the keyring copy, only the format is checked
	if err := sqlstore.ValidateConnString(dsn); err != nil && !errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
		return "", err
	}
	return dsn, nil
}

// OpenSource opens an existing store to copy users from: a PostgreSQL
// connection string, a SQLite database file, or a CSV data directory
func OpenSource(source string) (storage.Provider, error) {
	var store storage.Provider
	switch {
	case strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") || strings.Contains(source, "host="):
		if err := sqlstore.ValidateConnString(source); err != nil {
			if errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials, use .pgpass instead")
			}
			return nil, err
		}
		store = sqlstore.NewPostgres(source)
	default:
		path, err := config.ExpandPath(source)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", source, err)
		}
		if info.IsDir() {
			store = csvstore.New(path)
		} else {
			store = sqlstore.NewSQLite(path)
		}
	}

	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load source storage: %w", err)
	}
	return store, nil
}
