package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPeriodicity is returned when a periodicity is not daily or weekly
	ErrInvalidPeriodicity = errors.New("invalid periodicity, expected daily or weekly")
	// ErrHabitNotFound is returned when a habit is missing from the current set or has no metadata
	ErrHabitNotFound = errors.New("habit not found")
	// ErrDuplicateHabit is returned when adding a habit that is already current
	ErrDuplicateHabit = errors.New("habit already exists")
	// ErrEntryNotFound is returned when a correction targets a missing entry
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidThreshold is returned when a broken-streak check asks for fewer than one period
	ErrInvalidThreshold = errors.New("threshold must be at least 1 period")
	// ErrInvalidHabitName is returned when a habit name is empty or contains a comma
	ErrInvalidHabitName = errors.New("habit name must be non-empty and contain no commas")
	// ErrInvalidAggregate is returned when an aggregate task is not average, total or count
	ErrInvalidAggregate = fmt.Errorf("invalid aggregate task, expected %s, %s or %s", TaskAverage, TaskTotal, TaskCount)
)
