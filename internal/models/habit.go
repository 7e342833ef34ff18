package models

import "time"

// Periodicity is the cadence at which a habit is expected to be completed
type Periodicity string

const (
	Daily  Periodicity = "daily"
	Weekly Periodicity = "weekly"
)

// Valid reports whether p is one of the supported cadences
func (p Periodicity) Valid() bool {
	return p == Daily || p == Weekly
}

// Profile is the per-user record: identity plus the habit catalog.
// Units and Periods keep entries for habits that are no longer current.
type Profile struct {
	Username      string                 `json:"username"`
	DateOfBirth   string                 `json:"date_of_birth"`
	City          string                 `json:"city"`
	CurrentHabits []string               `json:"current_habits"`
	Units         map[string]string      `json:"units"`
	Periods       map[string]Periodicity `json:"periods"`
}

// NewProfile returns an empty profile with initialized metadata maps
func NewProfile(username, dateOfBirth, city string) Profile {
	return Profile{
		Username:      username,
		DateOfBirth:   dateOfBirth,
		City:          city,
		CurrentHabits: []string{},
		Units:         make(map[string]string),
		Periods:       make(map[string]Periodicity),
	}
}

// Event is a single observation in the event log
type Event struct {
	Date  time.Time `json:"date"` // calendar day, midnight UTC
	Habit string    `json:"habit"`
	Value float64   `json:"value"`
}
