package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/tui/components/habittable"
	"github.com/habitual/habitual/internal/tui/components/report"
	"github.com/habitual/habitual/internal/utils"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHabits
	StateStreaks
	StateTrack
	StateAddHabit
	StateConfirmRemove
)

// tabCount is the number of states reachable with tab
const tabCount = 3

type TrackFormModel struct {
	Habit string
	Value string
}

type HabitFormModel struct {
	Name   string
	Unit   string
	Period string
}

type Model struct {
	ctx           *cli.Context
	state         SessionState
	keys          KeyMap
	help          help.Model
	table         habittable.Model
	reportModel   report.Model
	streakLines   []string
	form          *huh.Form
	trackForm     *TrackFormModel
	habitForm     *HabitFormModel
	habitToRemove string
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

// NewModel loads the current user's habits into a dashboard
func NewModel(ctx *cli.Context) (Model, error) {
	if _, err := ctx.User(); err != nil {
		return Model{}, err
	}

	m := Model{
		ctx:         ctx,
		state:       StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		table:       habittable.New(nil, 0, 0),
		reportModel: report.New(),
	}
	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateHabits {
		keys = append(keys, m.keys.Track, m.keys.Add, m.keys.Remove)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	var actions []key.Binding
	if m.state == StateHabits {
		actions = []key.Binding{m.keys.Track, m.keys.Add, m.keys.Remove}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads every view from the store
func (m *Model) refresh() error {
	return m.ctx.View(func(t *tracker.Tracker) error {
		r, err := t.TodayReport()
		if err != nil {
			return err
		}

		done := make(map[string]bool)
		for _, h := range append(r.DailyDone, r.WeeklyDone...) {
			done[h] = true
		}

		var rows []habittable.Row
		var lines []string
		for _, habit := range t.Catalog.CurrentHabits() {
			streak, err := t.Streak(habit)
			if err != nil {
				return err
			}
			summary, err := t.Summary(habit)
			if err != nil {
				return err
			}
			rows = append(rows, habittable.Row{
				Habit:  habit,
				Period: streak.Periodicity,
				Unit:   summary.Unit,
				Streak: streak.Count,
				Count:  summary.Count,
				Total:  summary.Mean * float64(summary.Count),
				Done:   done[habit],
			})
			lines = append(lines, streakLine(streak))
		}

		longest, err := t.LongestStreak()
		if err != nil {
			return err
		}
		if longest.Overall != nil {
			lines = append(lines, "", fmt.Sprintf("Kept up the longest: %s since %s",
				longest.Overall.Habit, utils.FormatDate(longest.Overall.LastDateTracked)))
		}

		m.table.SetRows(rows)
		m.reportModel.SetReport(r, fmt.Sprintf("%d habit(s) still open", r.Pending()))
		m.streakLines = lines
		return nil
	})
}

func streakLine(s tracker.Streak) string {
	if s.Count == 0 {
		return fmt.Sprintf("%-20s no streak", s.Habit)
	}
	unit := "days"
	if s.Periodicity == models.Weekly {
		unit = "weeks"
	}
	return fmt.Sprintf("%-20s %d %s since %s", s.Habit, s.Count, unit, utils.FormatDate(s.LastDateTracked))
}

func (m *Model) track(habit string, value float64) error {
	return m.ctx.Update("track", func(t *tracker.Tracker) error {
		t.Track(habit, value)
		return nil
	})
}

func (m *Model) addHabit(name, unit, period string) error {
	return m.ctx.Update("habit.add", func(t *tracker.Tracker) error {
		return t.Catalog.AddHabit(name, unit, period)
	})
}

func (m *Model) removeHabit(name string) error {
	return m.ctx.Update("habit.remove", func(t *tracker.Tracker) error {
		return t.Catalog.RemoveHabit(name)
	})
}
