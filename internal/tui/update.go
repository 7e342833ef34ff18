package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitual/habitual/internal/cli/habits"
	"github.com/habitual/habitual/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetSize(msg.Width-4, msg.Height-10)
	}

	switch m.state {
	case StateTrack, StateAddHabit:
		return m.updateForm(msg)
	case StateConfirmRemove:
		return m.updateConfirmRemove(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(keyMsg, m.keys.Refresh):
		m.setResult("Refreshed", m.refresh())
		return m, nil
	}

	if m.state != StateHabits {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Track):
		row, ok := m.table.Selected()
		if !ok {
			return m, nil
		}
		m.trackForm = &TrackFormModel{Habit: row.Habit}
		m.form = NewTrackForm(m.trackForm, row.Unit)
		m.state = StateTrack
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Add):
		m.habitForm = &HabitFormModel{Period: string(models.Daily)}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Remove):
		row, ok := m.table.Selected()
		if !ok {
			return m, nil
		}
		m.habitToRemove = row.Habit
		m.state = StateConfirmRemove
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		var status string
		if m.state == StateTrack {
			status, err = m.submitTrack()
		} else {
			status, err = m.submitHabit()
		}
		m.state = StateHabits
		m.setResult(status, err)
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

func (m *Model) submitTrack() (string, error) {
	value, err := habits.ParseValue(m.trackForm.Value)
	if err != nil {
		return "", err
	}
	if err := m.track(m.trackForm.Habit, value); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s tracked!", m.trackForm.Habit), m.refresh()
}

func (m *Model) submitHabit() (string, error) {
	if err := m.addHabit(m.habitForm.Name, m.habitForm.Unit, m.habitForm.Period); err != nil {
		return "", err
	}
	return fmt.Sprintf("Habit %s added!", m.habitForm.Name), m.refresh()
}

func (m Model) updateConfirmRemove(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		name := m.habitToRemove
		err := m.removeHabit(name)
		if err == nil {
			err = m.refresh()
		}
		m.setResult(fmt.Sprintf("Habit %s removed!", name), err)
		m.habitToRemove = ""
		m.state = StateHabits
	case key.Matches(keyMsg, m.keys.No):
		m.habitToRemove = ""
		m.state = StateHabits
	}
	return m, nil
}

// setResult shows status on success and err otherwise
func (m *Model) setResult(status string, err error) {
	if err != nil {
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = status
}
