package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/habitual/habitual/internal/backup"
	"github.com/habitual/habitual/internal/config"
	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/storage"
	"github.com/habitual/habitual/internal/suggest"
	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

// ErrNoUser is returned by commands that need a user when nobody is logged in
var ErrNoUser = errors.New("no user selected, run 'habitual login <username>' or pass --user")

// Session identifies one run of the program. ID correlates log lines.
type Session struct {
	ID       uuid.UUID
	Username string
	Today    time.Time
}

// NewSession starts a session for username (may be empty) on today
func NewSession(username string, today time.Time) *Session {
	return &Session{
		ID:       uuid.New(),
		Username: username,
		Today:    today,
	}
}

type Context struct {
	Store      storage.Provider
	Config     *config.Config
	ConfigPath string
	Session    *Session
	Suggester  suggest.Generator
	Out        io.Writer
}

// Writer returns the command output stream
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// Generator returns the configured suggestion generator, never nil
func (c *Context) Generator() suggest.Generator {
	if c.Suggester == nil {
		return suggest.Unavailable{}
	}
	return c.Suggester
}

// User returns the username of the current session
func (c *Context) User() (string, error) {
	if c.Session == nil || c.Session.Username == "" {
		return "", ErrNoUser
	}
	return c.Session.Username, nil
}

// Today returns the session's calendar day
func (c *Context) Today() time.Time {
	if c.Session == nil || c.Session.Today.IsZero() {
		return utils.Day(time.Now())
	}
	return c.Session.Today
}

func (c *Context) sessionID() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.ID.String()
}

// loadTracker reads the user's profile and event log
func (c *Context) loadTracker() (*tracker.Tracker, error) {
	username, err := c.User()
	if err != nil {
		return nil, err
	}
	profile, err := c.Store.LoadProfile(username)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for %s: %w", username, err)
	}
	events, err := c.Store.LoadEvents(username)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for %s: %w", username, err)
	}
	return tracker.New(&profile, events, c.Today()), nil
}

// View runs fn against the current user's data without saving
func (c *Context) View(fn func(*tracker.Tracker) error) error {
	t, err := c.loadTracker()
	if err != nil {
		return err
	}
	return fn(t)
}

// Update runs fn against the current user's data and saves the profile
// and event log in full when fn succeeds
func (c *Context) Update(op string, fn func(*tracker.Tracker) error) error {
	t, err := c.loadTracker()
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}

	profile := t.Profile()
	if err := c.Store.SaveProfile(*profile); err != nil {
		return fmt.Errorf("failed to save profile for %s: %w", profile.Username, err)
	}
	if err := c.Store.SaveEvents(profile.Username, t.Log.Events()); err != nil {
		return fmt.Errorf("failed to save events for %s: %w", profile.Username, err)
	}

	logger.Info("Saved user data", "session", c.sessionID(), "user", profile.Username, "op", op)
	return nil
}

// BackupsSupported reports whether the backend keeps its data in the data directory
func (c *Context) BackupsSupported() bool {
	return c.Config == nil || c.Config.Storage.Backend != constants.BackendPostgres
}

// BackupManager returns a backup manager for the configured data directory
func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.Config.Storage.DataDir)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Config == nil || !c.BackupsSupported() {
		return
	}
	if _, err := c.BackupManager().CreateBackup(); err != nil && !errors.Is(err, backup.ErrNothingToBackup) {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
