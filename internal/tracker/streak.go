package tracker

import (
	"fmt"
	"time"

	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/utils"
)

// Streak is the run of consecutive completed periods ending at today
type Streak struct {
	Habit       string
	Periodicity models.Periodicity
	Count       int
	// LastDateTracked is the last date the backward walk matched, which is
	// the oldest day of the run (the day the streak started). Zero when Count is 0.
	LastDateTracked time.Time
	// Latest is the newest date counted by the walk
	Latest time.Time
}

// LongestStreaks holds the longest current daily and weekly streaks and the
// habit that has been kept up the longest. Any field is nil when no habit qualifies.
type LongestStreaks struct {
	Daily   *Streak
	Weekly  *Streak
	Overall *Streak
}

// BrokenCheck is the outcome of checking a habit against a streak threshold
type BrokenCheck struct {
	Habit       string
	Periodicity models.Periodicity
	Threshold   int
	Count       int
	Reached     bool
	// BrokenAt is the missing day (daily) or the Monday of the missing week
	// (weekly) that ended the walk. Zero when Reached is true.
	BrokenAt time.Time
}

type walkResult struct {
	count  int
	first  time.Time
	last   time.Time
	cursor time.Time
}

// walk scans history newest-first counting consecutive periods that end at
// today. The first entry outside the expected period terminates the walk;
// gaps are never skipped. A positive limit stops the walk once reached.
// history must be sorted by date ascending.
func walk(period models.Periodicity, history []HistoryEntry, today time.Time, limit int) (walkResult, error) {
	today = utils.Day(today)

	switch period {
	case models.Daily:
		res := walkResult{cursor: today}
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].Date.Equal(res.cursor) {
				break
			}
			if res.count == 0 {
				res.first = history[i].Date
			}
			res.count++
			res.last = history[i].Date
			res.cursor = res.cursor.AddDate(0, 0, -1)
			if limit > 0 && res.count == limit {
				break
			}
		}
		return res, nil

	case models.Weekly:
		start := utils.StartOfWeek(today)
		end := start.AddDate(0, 0, 6)
		res := walkResult{cursor: start}
		for i := len(history) - 1; i >= 0; i-- {
			d := history[i].Date
			if d.Before(start) || d.After(end) {
				break
			}
			if res.count == 0 {
				res.first = d
			}
			res.count++
			res.last = d
			start = start.AddDate(0, 0, -7)
			end = end.AddDate(0, 0, -7)
			res.cursor = start
			if limit > 0 && res.count == limit {
				break
			}
		}
		return res, nil
	}

	return walkResult{}, fmt.Errorf("%w: %q", ErrInvalidPeriodicity, string(period))
}

// CalculateStreak computes the current streak over a date-ascending history.
func CalculateStreak(period models.Periodicity, history []HistoryEntry, today time.Time) (int, time.Time, error) {
	res, err := walk(period, history, today, 0)
	if err != nil {
		return 0, time.Time{}, err
	}
	return res.count, res.last, nil
}

// Streak computes the current streak of a habit
func (t *Tracker) Streak(habit string) (Streak, error) {
	habit = NormalizeName(habit)
	period, err := t.Catalog.PeriodicityOf(habit)
	if err != nil {
		return Streak{}, err
	}

	res, err := walk(period, t.Log.HistoryOf(habit), t.today, 0)
	if err != nil {
		return Streak{}, fmt.Errorf("streak for %s: %w", habit, err)
	}

	return Streak{
		Habit:           habit,
		Periodicity:     period,
		Count:           res.count,
		LastDateTracked: res.last,
		Latest:          res.first,
	}, nil
}

// LongestStreak computes the streak of every current habit and picks the
// longest per periodicity. Equal counts keep the habit that comes first in
// catalog order.
func (t *Tracker) LongestStreak() (LongestStreaks, error) {
	var result LongestStreaks

	for _, habit := range t.Catalog.CurrentHabits() {
		s, err := t.Streak(habit)
		if err != nil {
			return LongestStreaks{}, err
		}

		switch s.Periodicity {
		case models.Daily:
			if result.Daily == nil || s.Count > result.Daily.Count {
				result.Daily = &s
			}
		case models.Weekly:
			if result.Weekly == nil || s.Count > result.Weekly.Count {
				result.Weekly = &s
			}
		}
	}

	result.Overall = longerRunning(result.Daily, result.Weekly)
	return result, nil
}

// longerRunning picks the streak that started earlier. A streak with no
// tracked date never wins over one that has a date; the daily streak wins
// when neither can be decided.
func longerRunning(daily, weekly *Streak) *Streak {
	switch {
	case weekly == nil:
		return daily
	case daily == nil:
		return weekly
	case daily.LastDateTracked.IsZero() && !weekly.LastDateTracked.IsZero():
		return weekly
	case weekly.LastDateTracked.IsZero():
		return daily
	case daily.LastDateTracked.Before(weekly.LastDateTracked):
		return daily
	default:
		return weekly
	}
}

// IsBroken walks the habit's history like Streak but stops as soon as the
// count reaches threshold. When the walk ends first, the result carries the
// count achieved and where the run broke.
func (t *Tracker) IsBroken(habit string, threshold int) (BrokenCheck, error) {
	habit = NormalizeName(habit)
	if threshold < 1 {
		return BrokenCheck{}, fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}

	period, err := t.Catalog.PeriodicityOf(habit)
	if err != nil {
		return BrokenCheck{}, err
	}

	res, err := walk(period, t.Log.HistoryOf(habit), t.today, threshold)
	if err != nil {
		return BrokenCheck{}, fmt.Errorf("broken check for %s: %w", habit, err)
	}

	check := BrokenCheck{
		Habit:       habit,
		Periodicity: period,
		Threshold:   threshold,
		Count:       res.count,
		Reached:     res.count >= threshold,
	}
	if !check.Reached {
		check.BrokenAt = res.cursor
	}
	return check, nil
}
