package storage

import "github.com/habitual/habitual/internal/models"

// Provider persists user profiles and their event logs. Each Save call
// replaces the stored state for that user in full.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	CreateUser(models.Profile) error
	ListUsers() ([]string, error)
	UserExists(username string) (bool, error)

	// Profile and event log
	LoadProfile(username string) (models.Profile, error)
	LoadEvents(username string) ([]models.Event, error)
	SaveProfile(models.Profile) error
	SaveEvents(username string, events []models.Event) error

	// Utils
	GetConfigPath() string
}
