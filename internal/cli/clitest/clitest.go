// Package clitest builds command contexts backed by a temporary CSV store
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/config"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/storage/csvstore"
	"github.com/habitual/habitual/internal/suggest"
)

// Today is the fixed day used by test sessions (a Wednesday)
var Today = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// NewContext returns a context with an initialized CSV store in a temp
// directory, output captured in the returned buffer, and no user selected
func NewContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = filepath.Join(dir, "data")

	store := csvstore.New(cfg.Storage.DataDir)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Session:    cli.NewSession("", Today),
		Suggester:  suggest.Static{SuggestionText: "Habit 1. Walking", GreetingText: "Hello, ada"},
		Out:        out,
	}, out
}

// NewUserContext is NewContext with user ada created and logged in
func NewUserContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	ctx, out := NewContext(t)
	if err := ctx.Store.CreateUser(models.NewProfile("ada", "1990-05-01", "London")); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	ctx.Session.Username = "ada"
	return ctx, out
}

// Habit is a catalog entry for Seed
type Habit struct {
	Name   string
	Unit   string
	Period models.Periodicity
}

// Seed stores current habits and events for the session user
func Seed(t *testing.T, ctx *cli.Context, habits []Habit, events []models.Event) {
	t.Helper()

	profile, err := ctx.Store.LoadProfile(ctx.Session.Username)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range habits {
		profile.CurrentHabits = append(profile.CurrentHabits, h.Name)
		profile.Units[h.Name] = h.Unit
		profile.Periods[h.Name] = h.Period
	}
	if err := ctx.Store.SaveProfile(profile); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.SaveEvents(ctx.Session.Username, events); err != nil {
		t.Fatal(err)
	}
}

// Sample is reading (daily, 35 days) and exercise (weekly, 5 weeks)
func Sample(t *testing.T, ctx *cli.Context) {
	t.Helper()
	events := append(Daily("reading", 35, 10), Weekly("exercise", 5, 60)...)
	Seed(t, ctx, []Habit{
		{Name: "reading", Unit: "pages", Period: models.Daily},
		{Name: "exercise", Unit: "minutes", Period: models.Weekly},
	}, events)
}

// Daily returns n consecutive daily events for habit ending at Today
func Daily(habit string, n int, value float64) []models.Event {
	var events []models.Event
	for i := n - 1; i >= 0; i-- {
		events = append(events, models.Event{Date: Today.AddDate(0, 0, -i), Habit: habit, Value: value})
	}
	return events
}

// Weekly returns one event per week for n consecutive weeks ending at Today
func Weekly(habit string, n int, value float64) []models.Event {
	var events []models.Event
	for i := n - 1; i >= 0; i-- {
		events = append(events, models.Event{Date: Today.AddDate(0, 0, -7*i), Habit: habit, Value: value})
	}
	return events
}
