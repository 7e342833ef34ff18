package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/habitual/habitual/internal/cli/habits"
	"github.com/habitual/habitual/internal/models"
)

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

// NewTrackForm asks for the value to record for fm.Habit
func NewTrackForm(fm *TrackFormModel, unit string) *huh.Form {
	title := "Value"
	if unit != "" {
		title += " (" + unit + ")"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Track " + fm.Habit).
				Description(title).
				Value(&fm.Value).
				Validate(func(s string) error {
					_, err := habits.ParseValue(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewHabitForm asks for the name, unit and periodicity of a new habit
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(notEmpty("habit name")),
			huh.NewInput().
				Title("Unit").
				Placeholder("pages, minutes, km").
				Value(&fm.Unit).
				Validate(notEmpty("unit")),
			huh.NewSelect[string]().
				Title("Periodicity").
				Options(
					huh.NewOption("Daily", string(models.Daily)),
					huh.NewOption("Weekly", string(models.Weekly)),
				).
				Value(&fm.Period),
		),
	).WithTheme(huh.ThemeDracula())
}
