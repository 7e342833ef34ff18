package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model renders the today report
type Model struct {
	report  tracker.DailyReport
	summary string
}

func New() Model {
	return Model{}
}

// SetReport replaces the report; summary is an optional line shown below it
func (m *Model) SetReport(r tracker.DailyReport, summary string) {
	m.report = r
	m.summary = summary
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Today " + utils.FormatDate(m.report.Date)))
	b.WriteString("\n\n")

	section(&b, "Daily", m.report.DailyDone, m.report.DailyPending)
	b.WriteString("\n")
	section(&b, "Weekly (since "+utils.FormatDate(m.report.WeekStart)+")", m.report.WeeklyDone, m.report.WeeklyPending)

	if m.summary != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.summary))
	}
	return b.String()
}

func section(b *strings.Builder, title string, done, pending []string) {
	b.WriteString(title)
	b.WriteString("\n")
	if len(done)+len(pending) == 0 {
		b.WriteString(mutedStyle.Render("  no habits"))
		b.WriteString("\n")
		return
	}
	for _, h := range done {
		b.WriteString(doneStyle.Render("  ✓ " + h))
		b.WriteString("\n")
	}
	for _, h := range pending {
		b.WriteString(pendingStyle.Render("  ○ " + h))
		b.WriteString("\n")
	}
}
