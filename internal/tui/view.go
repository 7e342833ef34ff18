package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var tabNames = []string{"Today", "Habits", "Streaks"}

func (m Model) View() string {
	if m.quitting {
		return "Exiting the Habit Tracker. Goodbye!\n"
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.reportModel.View()
	case StateHabits:
		content = m.table.View()
	case StateStreaks:
		content = strings.Join(m.streakLines, "\n")
		if content == "" {
			content = "No current habits."
		}
	case StateTrack, StateAddHabit:
		content = m.form.View()
	case StateConfirmRemove:
		content = m.viewConfirmRemove()
	}

	footer := ""
	if m.err != nil {
		footer = errorStyle.Render("Error: " + m.err.Error())
	} else if m.status != "" {
		footer = statusStyle.Render("✓ " + m.status)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		content,
		"",
		footer,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case StateTrack, StateAddHabit, StateConfirmRemove:
		active = StateHabits
	}

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if SessionState(i) == active {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmRemove() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Remove habit "+m.habitToRemove+"?"),
		"Its history is kept. Press y to confirm, n to cancel.",
	)
}
