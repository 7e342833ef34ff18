// Package csvstore keeps each user in two flat files: a one-row profile
// table and an append-only tracking table.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/storage"
	"github.com/habitual/habitual/internal/utils"
)

var (
	profileHeader = []string{"username", "DOB", "city", "current_habits", "measured_in", "period"}
	eventHeader   = []string{"date", "habit", "value"}
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to access data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.dir
}

func (s *Store) profilePath(username string) string {
	return filepath.Join(s.dir, constants.ProfileFilePrefix+username+constants.CSVFileSuffix)
}

func (s *Store) eventsPath(username string) string {
	return filepath.Join(s.dir, constants.TrackingFilePrefix+username+constants.CSVFileSuffix)
}

func (s *Store) CreateUser(profile models.Profile) error {
	if err := storage.ValidateUsername(profile.Username); err != nil {
		return err
	}
	exists, err := s.UserExists(profile.Username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", storage.ErrUserExists, profile.Username)
	}

	if err := s.SaveProfile(profile); err != nil {
		return err
	}
	return s.SaveEvents(profile.Username, nil)
}

func (s *Store) ListUsers() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, constants.ProfileFilePrefix+"*"+constants.CSVFileSuffix))
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), constants.ProfileFilePrefix), constants.CSVFileSuffix)
		users = append(users, name)
	}
	sort.Strings(users)
	return users, nil
}

func (s *Store) UserExists(username string) (bool, error) {
	_, err := os.Stat(s.profilePath(username))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *Store) LoadProfile(username string) (models.Profile, error) {
	records, err := readTable(s.profilePath(username), profileHeader)
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile of %s: %w", username, err)
	}
	if len(records) == 0 {
		return models.Profile{}, fmt.Errorf("profile of %s: %w: empty profile table", username, storage.ErrMissingUserData)
	}

	row := records[0]
	units, err := storage.DecodeUnits(row["measured_in"])
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile of %s: %w", username, err)
	}
	periods, err := storage.DecodePeriods(row["period"])
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile of %s: %w", username, err)
	}

	return models.Profile{
		Username:      row["username"],
		DateOfBirth:   row["DOB"],
		City:          row["city"],
		CurrentHabits: splitHabits(row["current_habits"]),
		Units:         units,
		Periods:       periods,
	}, nil
}

func (s *Store) SaveProfile(profile models.Profile) error {
	if err := storage.ValidateUsername(profile.Username); err != nil {
		return err
	}
	units, err := storage.EncodeUnits(profile.Units)
	if err != nil {
		return err
	}
	periods, err := storage.EncodePeriods(profile.Periods)
	if err != nil {
		return err
	}
	for _, h := range profile.CurrentHabits {
		if strings.Contains(h, ",") {
			return fmt.Errorf("profile of %s: current habit %q contains a comma", profile.Username, h)
		}
	}

	row := []string{
		profile.Username,
		profile.DateOfBirth,
		profile.City,
		strings.Join(profile.CurrentHabits, ","),
		units,
		periods,
	}
	return writeTable(s.profilePath(profile.Username), profileHeader, [][]string{row})
}

func (s *Store) LoadEvents(username string) ([]models.Event, error) {
	records, err := readTable(s.eventsPath(username), eventHeader)
	if err != nil {
		return nil, fmt.Errorf("tracking data of %s: %w", username, err)
	}

	events := make([]models.Event, 0, len(records))
	for i, row := range records {
		date, err := utils.ParseDate(row["date"])
		if err != nil {
			return nil, fmt.Errorf("tracking data of %s, row %d: %w", username, i+2, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row["value"]), 64)
		if err != nil {
			return nil, fmt.Errorf("tracking data of %s, row %d: invalid value %q", username, i+2, row["value"])
		}
		events = append(events, models.Event{
			Date:  date,
			Habit: strings.ToLower(strings.TrimSpace(row["habit"])),
			Value: value,
		})
	}
	return events, nil
}

func (s *Store) SaveEvents(username string, events []models.Event) error {
	if err := storage.ValidateUsername(username); err != nil {
		return err
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			utils.FormatDate(e.Date),
			e.Habit,
			strconv.FormatFloat(e.Value, 'f', -1, 64),
		})
	}
	return writeTable(s.eventsPath(username), eventHeader, rows)
}

// splitHabits parses the comma-joined current habit list
func splitHabits(s string) []string {
	habits := []string{}
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			habits = append(habits, h)
		}
	}
	return habits
}

// readTable reads a CSV file with a header row into column-keyed records.
// Every column in want must be present in the header.
func readTable(path string, want []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrMissingUserData, filepath.Base(path))
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header", storage.ErrMissingUserData, filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range want {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s is missing column %q", filepath.Base(path), col)
		}
	}

	var records []map[string]string
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}

		rec := make(map[string]string, len(want))
		for _, col := range want {
			if i := index[col]; i < len(fields) {
				rec[col] = fields[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// writeTable replaces path with header and rows. The data is written to a
// temporary file in the same directory and renamed into place.
func writeTable(path string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
