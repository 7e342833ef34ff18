package cli

import (
	"strings"

	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

// PrintReport writes the today report
func (c *Context) PrintReport(report tracker.DailyReport) {
	c.Println(TitleStyle.Render("REPORT of habits for " + utils.FormatDate(report.Date)))

	if len(report.DailyDone)+len(report.DailyPending) > 0 {
		c.Println(MutedStyle.Render("Daily habits: " + strings.Join(append(append([]string{}, report.DailyDone...), report.DailyPending...), ", ")))
		if len(report.DailyPending) == 0 {
			c.Println(DoneStyle.Render("Congratulations!! You've finished all of your daily habits"))
		}
		c.Println("Habits tracked today: " + joinOrNone(report.DailyDone))
		if len(report.DailyPending) > 0 {
			c.Println(PendingStyle.Render("Habits not yet completed today: " + strings.Join(report.DailyPending, ", ")))
		}
	}

	if len(report.WeeklyDone)+len(report.WeeklyPending) > 0 {
		c.Println(MutedStyle.Render("Weekly habits: " + strings.Join(append(append([]string{}, report.WeeklyDone...), report.WeeklyPending...), ", ")))
		if len(report.WeeklyPending) == 0 {
			c.Println(DoneStyle.Render("Congratulations!! You've finished all of your weekly habits"))
		}
		c.Println("Habits tracked this week: " + joinOrNone(report.WeeklyDone))
		if len(report.WeeklyPending) > 0 {
			c.Println(PendingStyle.Render("Habits not yet completed this week (since " + utils.FormatDate(report.WeekStart) + "): " + strings.Join(report.WeeklyPending, ", ")))
		}
	}

	if len(report.DailyDone)+len(report.DailyPending)+len(report.WeeklyDone)+len(report.WeeklyPending) == 0 {
		c.Println("You have no current habits. Add one with 'habitual habit add'.")
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
