package tracker

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/utils"
)

// HistoryEntry is one (date, value) pair of a habit's history
type HistoryEntry struct {
	Date  time.Time
	Value float64
}

// Log is the append-only event log. Insertion order is preserved and is not
// assumed to be chronological.
type Log struct {
	events []models.Event
}

func NewLog(events []models.Event) *Log {
	return &Log{events: slices.Clone(events)}
}

// Events returns the log in stored order
func (l *Log) Events() []models.Event {
	return slices.Clone(l.events)
}

// Len returns the number of events in the log
func (l *Log) Len() int {
	return len(l.events)
}

// Append records a new observation. The habit does not have to be current.
func (l *Log) Append(day time.Time, habit string, value float64) models.Event {
	event := models.Event{
		Date:  utils.Day(day),
		Habit: NormalizeName(habit),
		Value: value,
	}
	l.events = append(l.events, event)
	return event
}

// HistoryOf returns every event for habit sorted by date ascending.
// Events on the same date keep their insertion order.
func (l *Log) HistoryOf(habit string) []HistoryEntry {
	habit = NormalizeName(habit)
	var history []HistoryEntry
	for _, e := range l.events {
		if NormalizeName(e.Habit) == habit {
			history = append(history, HistoryEntry{Date: e.Date, Value: e.Value})
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history
}

// Correct replaces the value of the rank-th (1-based) event matching
// (day, habit), counted in insertion order.
func (l *Log) Correct(day time.Time, habit string, rank int, value float64) error {
	habit = NormalizeName(habit)
	day = utils.Day(day)

	seen := 0
	for i := range l.events {
		if !l.events[i].Date.Equal(day) || NormalizeName(l.events[i].Habit) != habit {
			continue
		}
		seen++
		if seen == rank {
			l.events[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("%w: entry no. %d for habit %q on %s", ErrEntryNotFound, rank, habit, utils.FormatDate(day))
}

// Habits returns the distinct habit names present in the log, sorted
func (l *Log) Habits() []string {
	seen := make(map[string]bool)
	var habits []string
	for _, e := range l.events {
		h := NormalizeName(e.Habit)
		if !seen[h] {
			seen[h] = true
			habits = append(habits, h)
		}
	}
	sort.Strings(habits)
	return habits
}

// TrackedOn reports whether habit has at least one event on day
func (l *Log) TrackedOn(habit string, day time.Time) bool {
	habit = NormalizeName(habit)
	day = utils.Day(day)
	for _, e := range l.events {
		if e.Date.Equal(day) && NormalizeName(e.Habit) == habit {
			return true
		}
	}
	return false
}
