package habits

import (
	"fmt"
	"strconv"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new current habit."`
	Remove HabitRemoveCmd `cmd:"" help:"Remove a habit from the current set (history is kept)."`
	List   HabitListCmd   `cmd:"" help:"List current habits."`
}

type HabitAddCmd struct {
	Name   string `arg:"" help:"Habit name."`
	Unit   string `help:"Unit of measurement (e.g. hours, minutes, times)." default:"times"`
	Period string `help:"How often the habit is tracked: daily or weekly." default:"daily"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	return Add(ctx, c.Name, c.Unit, c.Period)
}

// Add registers a new current habit
func Add(ctx *cli.Context, name, unit, period string) error {
	name = tracker.NormalizeName(name)
	err := ctx.Update("habit.add", func(t *tracker.Tracker) error {
		if err := t.Catalog.AddHabit(name, unit, period); err != nil {
			return fmt.Errorf("cannot add habit %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ctx.Printf("Habit %s added!\n", name)
	return nil
}

type HabitRemoveCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitRemoveCmd) Run(ctx *cli.Context) error {
	return Remove(ctx, c.Name)
}

// Remove drops a habit from the current set. Its unit, periodicity and
// events are kept.
func Remove(ctx *cli.Context, name string) error {
	name = tracker.NormalizeName(name)
	err := ctx.Update("habit.remove", func(t *tracker.Tracker) error {
		if err := t.Catalog.RemoveHabit(name); err != nil {
			return fmt.Errorf("there was no %s to remove: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ctx.Printf("Habit %s removed!\n", name)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	return List(ctx)
}

// List prints the number of current habits and their metadata
func List(ctx *cli.Context) error {
	return ctx.View(func(t *tracker.Tracker) error {
		habits := t.Catalog.CurrentHabits()
		ctx.Printf("You are currently tracking %d habits.\n", len(habits))
		if len(habits) == 0 {
			return nil
		}

		ctx.Println("Your current habits are:")
		for _, habit := range habits {
			unit, _ := t.Catalog.UnitOf(habit)
			period, _ := t.Catalog.PeriodicityOf(habit)
			ctx.Printf("  %-20s %-8s %s\n", habit, period, cli.MutedStyle.Render(unit))
		}
		return nil
	})
}

type TrackCmd struct {
	Habit string  `arg:"" help:"Habit name."`
	Value float64 `arg:"" help:"Tracked value in the habit's unit."`
	Date  string  `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *TrackCmd) Run(ctx *cli.Context) error {
	return Track(ctx, c.Habit, c.Value, c.Date)
}

// Track appends an event for habit on date, or today when date is empty
func Track(ctx *cli.Context, habit string, value float64, date string) error {
	habit = tracker.NormalizeName(habit)
	if habit == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	day := ctx.Today()
	if date != "" {
		parsed, err := utils.ParseDate(date)
		if err != nil {
			return err
		}
		if parsed.After(day) {
			return fmt.Errorf("cannot track %s on %s: date is in the future", habit, date)
		}
		day = parsed
	}

	current := true
	err := ctx.Update("track", func(t *tracker.Tracker) error {
		current = t.Catalog.IsCurrent(habit)
		t.TrackOn(day, habit, value)
		return nil
	})
	if err != nil {
		return err
	}

	if date == "" {
		ctx.Printf("%s tracked!\n", habit)
	} else {
		ctx.Printf("%s tracked on %s!\n", habit, utils.FormatDate(day))
	}
	if !current {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("Note: %s is not one of your current habits.", habit)))
	}
	return nil
}

type CorrectCmd struct {
	Date  string  `arg:"" help:"Date of the entry in YYYY-MM-DD format."`
	Habit string  `arg:"" help:"Habit name."`
	Value float64 `arg:"" help:"Corrected value."`
	Entry int     `help:"Entry number on that day (1 for the first entry, 2 for the second, ...)." default:"1"`
}

func (c *CorrectCmd) Run(ctx *cli.Context) error {
	return Correct(ctx, c.Date, c.Habit, c.Value, c.Entry)
}

// Correct replaces the value of the entry-th event of habit on date
func Correct(ctx *cli.Context, date, habit string, value float64, entry int) error {
	habit = tracker.NormalizeName(habit)
	day, err := utils.ParseDate(date)
	if err != nil {
		return err
	}
	if entry < 1 {
		return fmt.Errorf("entry number must be at least 1, got %d", entry)
	}

	err = ctx.Update("correct", func(t *tracker.Tracker) error {
		return t.Log.Correct(day, habit, entry, value)
	})
	if err != nil {
		return err
	}
	ctx.Printf("%s on %s corrected to %s.\n", habit, utils.FormatDate(day), formatValue(value))
	return nil
}

type HistoryCmd struct {
	Habit string `arg:"" help:"Habit name."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	return History(ctx, c.Habit)
}

// History prints every tracked value of habit and its count and mean
func History(ctx *cli.Context, habit string) error {
	return ctx.View(func(t *tracker.Tracker) error {
		summary, err := t.Summary(habit)
		if err != nil {
			return fmt.Errorf("no history for %q: %w", tracker.NormalizeName(habit), err)
		}

		if summary.Count == 0 {
			ctx.Printf("%s has not been tracked yet.\n", summary.Habit)
			return nil
		}
		for _, e := range summary.Entries {
			ctx.Printf("%s was tracked on %s for %s %s\n", summary.Habit, utils.FormatDate(e.Date), formatValue(e.Value), summary.Unit)
		}
		ctx.Printf("%s tracked %d times and averaged %.1f %s\n", summary.Habit, summary.Count, summary.Mean, summary.Unit)
		return nil
	})
}

// ParseValue parses a tracked value typed at a prompt
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: expected a number", s)
	}
	return v, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
