package tracker

import (
	"time"

	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/utils"
)

// DailyReport splits the current habits into done and pending for today.
// A weekly habit counts as done once it has an event in today's week.
type DailyReport struct {
	Date          time.Time
	WeekStart     time.Time
	DailyDone     []string
	DailyPending  []string
	WeeklyDone    []string
	WeeklyPending []string
}

// Pending returns the number of habits still open today
func (r DailyReport) Pending() int {
	return len(r.DailyPending) + len(r.WeeklyPending)
}

// TodayReport builds the done/pending report for today
func (t *Tracker) TodayReport() (DailyReport, error) {
	report := DailyReport{
		Date:      t.today,
		WeekStart: utils.StartOfWeek(t.today),
	}

	for _, habit := range t.Catalog.CurrentHabits() {
		period, err := t.Catalog.PeriodicityOf(habit)
		if err != nil {
			return DailyReport{}, err
		}

		switch period {
		case models.Daily:
			if t.Log.TrackedOn(habit, t.today) {
				report.DailyDone = append(report.DailyDone, habit)
			} else {
				report.DailyPending = append(report.DailyPending, habit)
			}
		case models.Weekly:
			if t.trackedSince(habit, report.WeekStart) {
				report.WeeklyDone = append(report.WeeklyDone, habit)
			} else {
				report.WeeklyPending = append(report.WeeklyPending, habit)
			}
		}
	}
	return report, nil
}

func (t *Tracker) trackedSince(habit string, since time.Time) bool {
	history := t.Log.HistoryOf(habit)
	if len(history) == 0 {
		return false
	}
	return !history[len(history)-1].Date.Before(since)
}
