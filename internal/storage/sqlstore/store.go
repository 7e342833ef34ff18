// Package sqlstore implements storage.Provider on SQLite and PostgreSQL
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/migration"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/storage"
	"github.com/habitual/habitual/internal/utils"
)

// Store is shared by both dialects. Queries are written with ? placeholders
// and rebound for PostgreSQL.
type Store struct {
	db     *sql.DB
	driver migration.Driver
	fs     fs.FS

	// open connects to the database; set by the dialect constructor
	open func() (*sql.DB, error)
	// exists reports whether the backend was initialized before
	exists func() (bool, error)
	// prepare runs dialect setup before migrations
	prepare func(*sql.DB) error
	// path is the database file (sqlite) or a redacted identifier (postgres)
	path string
}

func (s *Store) Init() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	if s.prepare != nil {
		if err := s.prepare(db); err != nil {
			db.Close()
			return err
		}
	}
	s.db = db

	runner, err := migration.NewRunner(s.db, s.fs, s.driver)
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "backend", string(s.driver))
	}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	ok, err := s.exists()
	if err != nil {
		return err
	}
	if !ok {
		return storage.ErrNotInitialized
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	runner, err := migration.NewRunner(s.db, s.fs, s.driver)
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, nil before Init or Load
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// SchemaVersion returns the applied and the latest known schema version
func (s *Store) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, errors.New("storage not loaded")
	}
	runner, err := migration.NewRunner(s.db, s.fs, s.driver)
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// rebind converts ? placeholders to $n for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.driver != migration.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) CreateUser(profile models.Profile) error {
	if err := storage.ValidateUsername(profile.Username); err != nil {
		return err
	}
	cols, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(s.rebind("SELECT COUNT(*) FROM users WHERE username = ?"), profile.Username).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", storage.ErrUserExists, profile.Username)
	}

	_, err = tx.Exec(s.rebind(`
		INSERT INTO users (username, date_of_birth, city, current_habits, units, periods)
		VALUES (?, ?, ?, ?, ?, ?)`),
		profile.Username, profile.DateOfBirth, profile.City, cols.habits, cols.units, cols.periods,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", profile.Username, err)
	}
	return tx.Commit()
}

func (s *Store) ListUsers() ([]string, error) {
	rows, err := s.db.Query("SELECT username FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UserExists(username string) (bool, error) {
	var n int
	if err := s.db.QueryRow(s.rebind("SELECT COUNT(*) FROM users WHERE username = ?"), username).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) LoadProfile(username string) (models.Profile, error) {
	var (
		p                      models.Profile
		habits, units, periods string
	)
	err := s.db.QueryRow(s.rebind(`
		SELECT username, date_of_birth, city, current_habits, units, periods
		FROM users WHERE username = ?`), username,
	).Scan(&p.Username, &p.DateOfBirth, &p.City, &habits, &units, &periods)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("%w: %s", storage.ErrMissingUserData, username)
		}
		return models.Profile{}, err
	}

	p.CurrentHabits = []string{}
	if habits != "" {
		if err := json.Unmarshal([]byte(habits), &p.CurrentHabits); err != nil {
			return models.Profile{}, fmt.Errorf("profile of %s: failed to decode current habits: %w", username, err)
		}
	}
	if p.Units, err = storage.DecodeUnits(units); err != nil {
		return models.Profile{}, fmt.Errorf("profile of %s: %w", username, err)
	}
	if p.Periods, err = storage.DecodePeriods(periods); err != nil {
		return models.Profile{}, fmt.Errorf("profile of %s: %w", username, err)
	}
	return p, nil
}

func (s *Store) SaveProfile(profile models.Profile) error {
	cols, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(s.rebind(`
		UPDATE users SET date_of_birth = ?, city = ?, current_habits = ?, units = ?, periods = ?
		WHERE username = ?`),
		profile.DateOfBirth, profile.City, cols.habits, cols.units, cols.periods, profile.Username,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile of %s: %w", profile.Username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrMissingUserData, profile.Username)
	}
	return nil
}

func (s *Store) LoadEvents(username string) ([]models.Event, error) {
	ok, err := s.UserExists(username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrMissingUserData, username)
	}

	rows, err := s.db.Query(s.rebind("SELECT date, habit, value FROM events WHERE username = ? ORDER BY position"), username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var (
			date string
			e    models.Event
		)
		if err := rows.Scan(&date, &e.Habit, &e.Value); err != nil {
			return nil, err
		}
		if e.Date, err = utils.ParseDate(date); err != nil {
			return nil, fmt.Errorf("events of %s: %w", username, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveEvents replaces the whole log of a user in one transaction
func (s *Store) SaveEvents(username string, events []models.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(s.rebind("SELECT COUNT(*) FROM users WHERE username = ?"), username).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrMissingUserData, username)
	}

	if _, err := tx.Exec(s.rebind("DELETE FROM events WHERE username = ?"), username); err != nil {
		return fmt.Errorf("failed to clear events of %s: %w", username, err)
	}

	stmt, err := tx.Prepare(s.rebind("INSERT INTO events (username, position, date, habit, value) VALUES (?, ?, ?, ?, ?)"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err := stmt.Exec(username, i, utils.FormatDate(e.Date), e.Habit, e.Value); err != nil {
			return fmt.Errorf("failed to save event %d of %s: %w", i+1, username, err)
		}
	}
	return tx.Commit()
}

type profileColumns struct {
	habits, units, periods string
}

func encodeProfile(p models.Profile) (profileColumns, error) {
	habits := p.CurrentHabits
	if habits == nil {
		habits = []string{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return profileColumns{}, err
	}
	units, err := storage.EncodeUnits(p.Units)
	if err != nil {
		return profileColumns{}, err
	}
	periods, err := storage.EncodePeriods(p.Periods)
	if err != nil {
		return profileColumns{}, err
	}
	return profileColumns{habits: string(data), units: units, periods: periods}, nil
}
