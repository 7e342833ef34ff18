package sqlstore

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/storage"
	"github.com/habitual/habitual/internal/utils"
)

func setupSQLiteStore(t *testing.T) *Store {
	t.Helper()
	s := NewSQLite(filepath.Join(t.TempDir(), "habitual.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// setupPostgresStore connects to HABITUAL_TEST_POSTGRES_DSN and drops the
// tables afterwards
func setupPostgresStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv(constants.EnvTestPostgresDSN)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", constants.EnvTestPostgresDSN)
	}
	s := NewPostgres(dsn)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		db := s.GetDB()
		db.Exec("DROP TABLE IF EXISTS events")
		db.Exec("DROP TABLE IF EXISTS users")
		db.Exec("DROP TABLE IF EXISTS schema_version")
		s.Close()
	})
	return s
}

func mustDate(t *testing.T, s string) models.Event {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return models.Event{Date: d}
}

// exerciseProvider runs the storage contract against any backend
func exerciseProvider(t *testing.T, s storage.Provider) {
	profile := models.NewProfile("alice", "1990-04-02", "Berlin")
	if err := s.CreateUser(profile); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := s.CreateUser(profile); !errors.Is(err, storage.ErrUserExists) {
		t.Errorf("CreateUser() duplicate error = %v, want ErrUserExists", err)
	}
	if err := s.CreateUser(models.NewProfile("bob", "", "")); err != nil {
		t.Fatalf("CreateUser(bob) error = %v", err)
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if !slices.Equal(users, []string{"alice", "bob"}) {
		t.Errorf("ListUsers() = %v", users)
	}

	profile.CurrentHabits = []string{"reading", "exercise"}
	profile.Units = map[string]string{"reading": "pages", "exercise": "minutes"}
	profile.Periods = map[string]models.Periodicity{"reading": models.Daily, "exercise": models.Weekly}
	if err := s.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	got, err := s.LoadProfile("alice")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if !slices.Equal(got.CurrentHabits, profile.CurrentHabits) || got.Units["exercise"] != "minutes" || got.Periods["exercise"] != models.Weekly {
		t.Errorf("LoadProfile() = %+v", got)
	}

	e1 := mustDate(t, "2025-01-10")
	e1.Habit, e1.Value = "reading", 12.5
	e2 := mustDate(t, "2025-01-02")
	e2.Habit, e2.Value = "reading", 3
	events := []models.Event{e1, e2}
	if err := s.SaveEvents("alice", events); err != nil {
		t.Fatalf("SaveEvents() error = %v", err)
	}
	// saving again replaces rather than appends
	if err := s.SaveEvents("alice", events); err != nil {
		t.Fatalf("SaveEvents() error = %v", err)
	}
	loaded, err := s.LoadEvents("alice")
	if err != nil {
		t.Fatalf("LoadEvents() error = %v", err)
	}
	if !slices.Equal(loaded, events) {
		t.Errorf("LoadEvents() = %v, want %v", loaded, events)
	}

	if _, err := s.LoadProfile("ghost"); !errors.Is(err, storage.ErrMissingUserData) {
		t.Errorf("LoadProfile(ghost) error = %v, want ErrMissingUserData", err)
	}
	if _, err := s.LoadEvents("ghost"); !errors.Is(err, storage.ErrMissingUserData) {
		t.Errorf("LoadEvents(ghost) error = %v, want ErrMissingUserData", err)
	}
	if err := s.SaveEvents("ghost", events); !errors.Is(err, storage.ErrMissingUserData) {
		t.Errorf("SaveEvents(ghost) error = %v, want ErrMissingUserData", err)
	}
	if err := s.SaveProfile(models.NewProfile("ghost", "", "")); !errors.Is(err, storage.ErrMissingUserData) {
		t.Errorf("SaveProfile(ghost) error = %v, want ErrMissingUserData", err)
	}
}

func TestSQLiteProvider(t *testing.T) {
	exerciseProvider(t, setupSQLiteStore(t))
}

func TestPostgresProvider(t *testing.T) {
	exerciseProvider(t, setupPostgresStore(t))
}

func TestSQLiteLoad(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		s := NewSQLite(filepath.Join(t.TempDir(), "absent.db"))
		if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
			t.Errorf("Load() error = %v, want ErrNotInitialized", err)
		}
	})

	t.Run("reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "habitual.db")
		s := NewSQLite(path)
		if err := s.Init(); err != nil {
			t.Fatal(err)
		}
		if err := s.CreateUser(models.NewProfile("alice", "", "")); err != nil {
			t.Fatal(err)
		}
		s.Close()

		reopened := NewSQLite(path)
		if err := reopened.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		defer reopened.Close()
		if ok, _ := reopened.UserExists("alice"); !ok {
			t.Error("UserExists(alice) = false after reopen")
		}

		current, latest, err := reopened.SchemaVersion()
		if err != nil {
			t.Fatalf("SchemaVersion() error = %v", err)
		}
		if current != latest || current < 1 {
			t.Errorf("SchemaVersion() = %d, %d", current, latest)
		}
	})
}

func TestCopyUsersBetweenBackends(t *testing.T) {
	src := setupSQLiteStore(t)
	dst := setupSQLiteStore(t)

	profile := models.NewProfile("alice", "", "Oslo")
	profile.CurrentHabits = []string{"reading"}
	profile.Units["reading"] = "pages"
	profile.Periods["reading"] = models.Daily
	if err := src.CreateUser(profile); err != nil {
		t.Fatal(err)
	}
	e := mustDate(t, "2025-01-01")
	e.Habit, e.Value = "reading", 7
	if err := src.SaveEvents("alice", []models.Event{e}); err != nil {
		t.Fatal(err)
	}
	if err := dst.CreateUser(models.NewProfile("bob", "", "")); err != nil {
		t.Fatal(err)
	}
	if err := src.CreateUser(models.NewProfile("bob", "", "")); err != nil {
		t.Fatal(err)
	}

	copied, skipped, err := storage.CopyUsers(src, dst)
	if err != nil {
		t.Fatalf("CopyUsers() error = %v", err)
	}
	if !slices.Equal(copied, []string{"alice"}) || !slices.Equal(skipped, []string{"bob"}) {
		t.Errorf("CopyUsers() = %v, %v", copied, skipped)
	}

	got, err := dst.LoadProfile("alice")
	if err != nil || got.City != "Oslo" || got.Units["reading"] != "pages" {
		t.Errorf("copied profile = %+v, %v", got, err)
	}
	events, _ := dst.LoadEvents("alice")
	if len(events) != 1 || events[0].Value != 7 {
		t.Errorf("copied events = %v", events)
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: "postgres"}
	if got := pg.rebind("SELECT a FROM t WHERE b = ? AND c = ?"); got != "SELECT a FROM t WHERE b = $1 AND c = $2" {
		t.Errorf("rebind() = %q", got)
	}
	lite := &Store{driver: "sqlite"}
	if got := lite.rebind("x = ?"); got != "x = ?" {
		t.Errorf("rebind() = %q", got)
	}
}
