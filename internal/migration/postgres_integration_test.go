package migration

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/migrations"
)

// setupPostgresTestDB connects to the database named by HABITUAL_TEST_POSTGRES_DSN
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv(constants.EnvTestPostgresDSN)
	if connStr == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", constants.EnvTestPostgresDSN)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS events")
		db.Exec("DROP TABLE IF EXISTS users")
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Close()
	})
	return db
}

// TestPostgresSetVersion checks the $1 placeholder path
func TestPostgresSetVersion(t *testing.T) {
	db := setupPostgresTestDB(t)

	runner, err := NewRunner(db, testMigrations(map[string]string{
		"001_init.sql": "CREATE TABLE IF NOT EXISTS users (username TEXT PRIMARY KEY);",
	}), DriverPostgres)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	if err := runner.SetVersion(3); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 3 {
		t.Errorf("expected version 3, got %d", version)
	}
}

func TestPostgresEmbeddedSchema(t *testing.T) {
	db := setupPostgresTestDB(t)

	runner, err := NewRunner(db, migrations.Postgres(), DriverPostgres)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	var exists bool
	err = db.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'events')").Scan(&exists)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !exists {
		t.Error("events table was not created")
	}
}
