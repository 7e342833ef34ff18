package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingUserData is returned when the profile or event log of a user is absent
	ErrMissingUserData = errors.New("user data not found")
	// ErrUserExists is returned when creating a user whose name is taken
	ErrUserExists = errors.New("user already exists")
	// ErrNotInitialized is returned by Load when the backend was never initialized
	ErrNotInitialized = errors.New("storage not initialized, run 'habitual init' first")
)

// ValidateUsername rejects names that cannot be used as a file name component
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if strings.ContainsAny(username, `/\`) || username == "." || username == ".." {
		return fmt.Errorf("invalid username %q", username)
	}
	return nil
}
