// Package suggest generates habit suggestions and login greetings with a
// text-generation service.
package suggest

import (
	"context"
	"errors"

	"github.com/habitual/habitual/internal/models"
)

// ErrUnavailable is returned when no text-generation service is configured
var ErrUnavailable = errors.New("suggestions unavailable: no API key configured")

// Generator produces free-form text for a user
type Generator interface {
	Suggestions(ctx context.Context, profile models.Profile) (string, error)
	Greeting(ctx context.Context, profile models.Profile, events []models.Event) (string, error)
}

// Unavailable is the Generator used when no API key is set
type Unavailable struct{}

func (Unavailable) Suggestions(context.Context, models.Profile) (string, error) {
	return "", ErrUnavailable
}

func (Unavailable) Greeting(context.Context, models.Profile, []models.Event) (string, error) {
	return "", ErrUnavailable
}

// Static returns fixed text. Useful for tests and offline demos.
type Static struct {
	SuggestionText string
	GreetingText   string
}

func (s Static) Suggestions(context.Context, models.Profile) (string, error) {
	return s.SuggestionText, nil
}

func (s Static) Greeting(context.Context, models.Profile, []models.Event) (string, error) {
	return s.GreetingText, nil
}
