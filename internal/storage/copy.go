package storage

import (
	"errors"
	"fmt"

	"github.com/habitual/habitual/internal/logger"
)

// CopyUsers copies every user from src into dst. Users that already exist
// in dst are skipped and reported in the returned list.
func CopyUsers(src, dst Provider) (copied, skipped []string, err error) {
	users, err := src.ListUsers()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list source users: %w", err)
	}

	for _, username := range users {
		profile, err := src.LoadProfile(username)
		if err != nil {
			return copied, skipped, fmt.Errorf("failed to load profile for %s: %w", username, err)
		}
		events, err := src.LoadEvents(username)
		if err != nil {
			return copied, skipped, fmt.Errorf("failed to load events for %s: %w", username, err)
		}

		if err := dst.CreateUser(profile); err != nil {
			if errors.Is(err, ErrUserExists) {
				logger.Warn("Skipping existing user during copy", "user", username)
				skipped = append(skipped, username)
				continue
			}
			return copied, skipped, fmt.Errorf("failed to create user %s: %w", username, err)
		}
		if err := dst.SaveEvents(username, events); err != nil {
			return copied, skipped, fmt.Errorf("failed to save events for %s: %w", username, err)
		}

		logger.Info("Copied user", "user", username, "events", len(events))
		copied = append(copied, username)
	}
	return copied, skipped, nil
}
