package tracker

import (
	"fmt"
	"sort"
	"strings"
)

// AggregateTask selects the statistic computed by Aggregate
type AggregateTask string

const (
	TaskAverage AggregateTask = "average"
	TaskTotal   AggregateTask = "total"
	TaskCount   AggregateTask = "count"
)

// Scope selects which habits Aggregate covers
type Scope string

const (
	// ScopeAll covers every habit that appears in the event log
	ScopeAll Scope = "all"
	// ScopeCurrent covers only the current habit set
	ScopeCurrent Scope = "current"
)

// ParseAggregateTask case-folds s and validates it
func ParseAggregateTask(s string) (AggregateTask, error) {
	task := AggregateTask(strings.ToLower(strings.TrimSpace(s)))
	switch task {
	case TaskAverage, TaskTotal, TaskCount:
		return task, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAggregate, s)
}

// AggregateRow is one habit's statistic. Unit is empty for TaskCount.
type AggregateRow struct {
	Habit string
	Value float64
	Count int
	Unit  string
}

// HabitSummary is a habit's full history with its count and mean
type HabitSummary struct {
	Habit   string
	Unit    string
	Entries []HistoryEntry
	Count   int
	Mean    float64
}

// Aggregate computes task for every habit in scope, sorted by habit name.
// Current habits that have no events yet are reported with a zero value.
func (t *Tracker) Aggregate(task AggregateTask, scope Scope) ([]AggregateRow, error) {
	var habits []string
	switch scope {
	case ScopeAll:
		habits = t.Log.Habits()
	case ScopeCurrent:
		habits = t.Catalog.CurrentHabits()
		sort.Strings(habits)
	default:
		return nil, fmt.Errorf("invalid scope %q, expected %s or %s", scope, ScopeAll, ScopeCurrent)
	}

	rows := make([]AggregateRow, 0, len(habits))
	for _, habit := range habits {
		row, err := t.aggregateHabit(task, habit)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *Tracker) aggregateHabit(task AggregateTask, habit string) (AggregateRow, error) {
	history := t.Log.HistoryOf(habit)
	row := AggregateRow{Habit: habit, Count: len(history)}

	var sum float64
	for _, h := range history {
		sum += h.Value
	}

	switch task {
	case TaskCount:
		row.Value = float64(row.Count)
		return row, nil
	case TaskTotal:
		row.Value = sum
	case TaskAverage:
		if row.Count > 0 {
			row.Value = sum / float64(row.Count)
		}
	default:
		return AggregateRow{}, fmt.Errorf("%w: %q", ErrInvalidAggregate, string(task))
	}

	unit, err := t.Catalog.UnitOf(habit)
	if err != nil {
		return AggregateRow{}, err
	}
	row.Unit = unit
	return row, nil
}

// Summary returns the full history of one habit with its count and mean
func (t *Tracker) Summary(habit string) (HabitSummary, error) {
	habit = NormalizeName(habit)
	unit, err := t.Catalog.UnitOf(habit)
	if err != nil {
		return HabitSummary{}, err
	}

	history := t.Log.HistoryOf(habit)
	summary := HabitSummary{
		Habit:   habit,
		Unit:    unit,
		Entries: history,
		Count:   len(history),
	}
	if summary.Count > 0 {
		var sum float64
		for _, h := range history {
			sum += h.Value
		}
		summary.Mean = sum / float64(summary.Count)
	}
	return summary, nil
}
