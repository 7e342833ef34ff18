package habittable

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/habitual/habitual/internal/models"
)

// Row is one current habit with its statistics
type Row struct {
	Habit  string
	Period models.Periodicity
	Unit   string
	Streak int
	Count  int
	Total  float64
	Done   bool
}

type Model struct {
	table table.Model
	rows  []Row
}

var columns = []table.Column{
	{Title: "", Width: 2},
	{Title: "Habit", Width: 20},
	{Title: "Period", Width: 8},
	{Title: "Unit", Width: 10},
	{Title: "Streak", Width: 8},
	{Title: "Entries", Width: 8},
	{Title: "Total", Width: 10},
}

func New(rows []Row, width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 5)),
	)
	if width > 0 {
		t.SetWidth(width)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := Model{table: t}
	m.SetRows(rows)
	return m
}

func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		mark := "○"
		if r.Done {
			mark = "✓"
		}
		tableRows[i] = table.Row{
			mark,
			r.Habit,
			string(r.Period),
			r.Unit,
			streakLabel(r),
			strconv.Itoa(r.Count),
			strconv.FormatFloat(r.Total, 'f', -1, 64),
		}
	}
	m.table.SetRows(tableRows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func streakLabel(r Row) string {
	unit := "d"
	if r.Period == models.Weekly {
		unit = "w"
	}
	return fmt.Sprintf("%d%s", r.Streak, unit)
}

// Selected returns the highlighted row
func (m Model) Selected() (Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[i], true
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(max(height, 5))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "No current habits. Press 'a' to add one."
	}
	return m.table.View()
}
