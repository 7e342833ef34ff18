package tracker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/habitual/habitual/internal/models"
)

// Catalog manages the habit metadata stored on a user profile.
// Removing a habit only edits the current set; unit and periodicity
// metadata is kept so historical events stay interpretable.
type Catalog struct {
	profile *models.Profile
}

func NewCatalog(profile *models.Profile) *Catalog {
	if profile.Units == nil {
		profile.Units = make(map[string]string)
	}
	if profile.Periods == nil {
		profile.Periods = make(map[string]models.Periodicity)
	}
	return &Catalog{profile: profile}
}

// NormalizeName folds a habit name to the form used as a key everywhere
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParsePeriodicity case-folds s and validates it
func ParsePeriodicity(s string) (models.Periodicity, error) {
	p := models.Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriodicity, s)
	}
	return p, nil
}

// AddHabit registers a habit and appends it to the current set
func (c *Catalog) AddHabit(name, unit, periodicity string) error {
	name = NormalizeName(name)
	// The current set is stored comma-joined by the CSV backend
	if name == "" || strings.Contains(name, ",") {
		return fmt.Errorf("%w: %q", ErrInvalidHabitName, name)
	}
	if c.IsCurrent(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateHabit, name)
	}

	// Validate before touching metadata so a bad periodicity records nothing
	period, err := ParsePeriodicity(periodicity)
	if err != nil {
		return err
	}

	c.profile.Units[name] = unit
	c.profile.Periods[name] = period
	c.profile.CurrentHabits = append(c.profile.CurrentHabits, name)
	return nil
}

// RemoveHabit drops a habit from the current set, keeping its metadata
func (c *Catalog) RemoveHabit(name string) error {
	name = NormalizeName(name)
	idx := c.indexOf(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	c.profile.CurrentHabits = slices.Delete(c.profile.CurrentHabits, idx, idx+1)
	return nil
}

// PeriodicityOf returns the recorded periodicity of a habit, current or not
func (c *Catalog) PeriodicityOf(name string) (models.Periodicity, error) {
	key, ok := c.lookupKey(name, func(k string) bool {
		_, found := c.profile.Periods[k]
		return found
	})
	if !ok {
		return "", fmt.Errorf("%w: no periodicity recorded for %s", ErrHabitNotFound, NormalizeName(name))
	}
	return c.profile.Periods[key], nil
}

// UnitOf returns the recorded unit of measurement of a habit, current or not
func (c *Catalog) UnitOf(name string) (string, error) {
	key, ok := c.lookupKey(name, func(k string) bool {
		_, found := c.profile.Units[k]
		return found
	})
	if !ok {
		return "", fmt.Errorf("%w: no unit recorded for %s", ErrHabitNotFound, NormalizeName(name))
	}
	return c.profile.Units[key], nil
}

// CurrentHabits returns a copy of the ordered set of active habit names
func (c *Catalog) CurrentHabits() []string {
	return slices.Clone(c.profile.CurrentHabits)
}

// IsCurrent reports whether name is in the current set
func (c *Catalog) IsCurrent(name string) bool {
	return c.indexOf(NormalizeName(name)) >= 0
}

func (c *Catalog) indexOf(name string) int {
	return slices.IndexFunc(c.profile.CurrentHabits, func(h string) bool {
		return strings.EqualFold(h, name)
	})
}

// lookupKey resolves name against metadata keys. Profiles written by older
// versions may carry mixed-case keys, so fall back to a case-insensitive scan.
func (c *Catalog) lookupKey(name string, exists func(string) bool) (string, bool) {
	name = NormalizeName(name)
	if exists(name) {
		return name, true
	}
	for k := range c.profile.Periods {
		if strings.EqualFold(k, name) && exists(k) {
			return k, true
		}
	}
	for k := range c.profile.Units {
		if strings.EqualFold(k, name) && exists(k) {
			return k, true
		}
	}
	return "", false
}
