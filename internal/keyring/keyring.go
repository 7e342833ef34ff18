package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/habitual/habitual/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested entry
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry names one secret stored under the application's keyring service
type Entry string

const (
	APIKey           Entry = constants.KeyringAPIKeyUser
	ConnectionString Entry = constants.KeyringConnectionUser
)

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(entry Entry) (string, error) {
	secret, err := keyring.Get(constants.AppName, string(entry))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret in the OS keyring
func Set(entry Entry, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", entry)
	}
	if err := keyring.Set(constants.AppName, string(entry), secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring
func Delete(entry Entry) error {
	if err := keyring.Delete(constants.AppName, string(entry)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}

// GetAPIKey retrieves the text-generation API key
func GetAPIKey() (string, error) {
	return Get(APIKey)
}

// GetConnectionString retrieves the PostgreSQL connection string
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
