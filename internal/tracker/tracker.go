package tracker

import (
	"time"

	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/utils"
)

// Tracker binds a profile's habit catalog to its event log and a fixed
// notion of today. All analytics are computed on demand; nothing is cached.
type Tracker struct {
	Catalog *Catalog
	Log     *Log

	profile *models.Profile
	today   time.Time
}

// New builds a tracker over profile and events. The profile is edited in
// place by catalog operations.
func New(profile *models.Profile, events []models.Event, today time.Time) *Tracker {
	return &Tracker{
		Catalog: NewCatalog(profile),
		Log:     NewLog(events),
		profile: profile,
		today:   utils.Day(today),
	}
}

// Profile returns the profile the tracker edits
func (t *Tracker) Profile() *models.Profile {
	return t.profile
}

// Today returns the day analytics are computed against
func (t *Tracker) Today() time.Time {
	return t.today
}

// Track records a value for habit on today
func (t *Tracker) Track(habit string, value float64) models.Event {
	return t.Log.Append(t.today, habit, value)
}

// TrackOn records a value for habit on an arbitrary day
func (t *Tracker) TrackOn(day time.Time, habit string, value float64) models.Event {
	return t.Log.Append(day, habit, value)
}
