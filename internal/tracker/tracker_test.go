package tracker

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/utils"
)

// 2025-01-15 is a Wednesday
var testToday = mustDay("2025-01-15")

func mustDay(s string) time.Time {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func daysBefore(n int) time.Time {
	return testToday.AddDate(0, 0, -n)
}

// newTestTracker returns a tracker for a profile with reading (daily, pages)
// and exercise (weekly, minutes) as current habits
func newTestTracker(t *testing.T, events []models.Event) *Tracker {
	t.Helper()
	profile := models.NewProfile("alice", "1990-04-02", "Berlin")
	tr := New(&profile, events, testToday)
	if err := tr.Catalog.AddHabit("reading", "pages", "daily"); err != nil {
		t.Fatalf("AddHabit(reading) error = %v", err)
	}
	if err := tr.Catalog.AddHabit("exercise", "minutes", "weekly"); err != nil {
		t.Fatalf("AddHabit(exercise) error = %v", err)
	}
	return tr
}

// sampleEvents is 35 consecutive daily reading events and 5 consecutive
// weekly exercise events, both ending today
func sampleEvents() []models.Event {
	var events []models.Event
	for i := 34; i >= 0; i-- {
		events = append(events, models.Event{Date: daysBefore(i), Habit: "reading", Value: 10})
	}
	for i := 4; i >= 0; i-- {
		events = append(events, models.Event{Date: daysBefore(7 * i), Habit: "exercise", Value: 60})
	}
	return events
}

func TestCatalogAddHabit(t *testing.T) {
	t.Run("case folds name and periodicity", func(t *testing.T) {
		profile := models.NewProfile("bob", "", "")
		c := NewCatalog(&profile)

		if err := c.AddHabit("Reading", "pages", "Daily"); err != nil {
			t.Fatalf("AddHabit() error = %v", err)
		}
		got, err := c.PeriodicityOf("reading")
		if err != nil {
			t.Fatalf("PeriodicityOf() error = %v", err)
		}
		if got != models.Daily {
			t.Errorf("PeriodicityOf(reading) = %q, want %q", got, models.Daily)
		}
		if !slices.Equal(c.CurrentHabits(), []string{"reading"}) {
			t.Errorf("CurrentHabits() = %v, want [reading]", c.CurrentHabits())
		}
	})

	t.Run("duplicate habit", func(t *testing.T) {
		profile := models.NewProfile("bob", "", "")
		c := NewCatalog(&profile)
		if err := c.AddHabit("reading", "pages", "daily"); err != nil {
			t.Fatalf("AddHabit() error = %v", err)
		}

		err := c.AddHabit("READING", "chapters", "weekly")
		if !errors.Is(err, ErrDuplicateHabit) {
			t.Fatalf("AddHabit() error = %v, want ErrDuplicateHabit", err)
		}
		if unit, _ := c.UnitOf("reading"); unit != "pages" {
			t.Errorf("UnitOf(reading) = %q, want pages", unit)
		}
	})

	t.Run("invalid periodicity records nothing", func(t *testing.T) {
		profile := models.NewProfile("bob", "", "")
		c := NewCatalog(&profile)

		err := c.AddHabit("yoga", "minutes", "monthly")
		if !errors.Is(err, ErrInvalidPeriodicity) {
			t.Fatalf("AddHabit() error = %v, want ErrInvalidPeriodicity", err)
		}
		if len(c.CurrentHabits()) != 0 {
			t.Errorf("CurrentHabits() = %v, want empty", c.CurrentHabits())
		}
		if _, err := c.UnitOf("yoga"); !errors.Is(err, ErrHabitNotFound) {
			t.Errorf("UnitOf(yoga) error = %v, want ErrHabitNotFound", err)
		}
	})

	t.Run("invalid names record nothing", func(t *testing.T) {
		for _, name := range []string{"", "   ", "push ups, sit ups", ","} {
			profile := models.NewProfile("bob", "", "")
			c := NewCatalog(&profile)

			err := c.AddHabit(name, "reps", "daily")
			if !errors.Is(err, ErrInvalidHabitName) {
				t.Fatalf("AddHabit(%q) error = %v, want ErrInvalidHabitName", name, err)
			}
			if len(c.CurrentHabits()) != 0 || len(profile.Units) != 0 || len(profile.Periods) != 0 {
				t.Errorf("AddHabit(%q) left metadata behind: %+v", name, profile)
			}
		}
	})
}

func TestCatalogRemoveHabit(t *testing.T) {
	t.Run("absent habit leaves set unchanged", func(t *testing.T) {
		profile := models.NewProfile("bob", "", "")
		c := NewCatalog(&profile)
		_ = c.AddHabit("reading", "pages", "daily")
		_ = c.AddHabit("exercise", "minutes", "weekly")
		before := c.CurrentHabits()

		err := c.RemoveHabit("meditation")
		if !errors.Is(err, ErrHabitNotFound) {
			t.Fatalf("RemoveHabit() error = %v, want ErrHabitNotFound", err)
		}
		if !slices.Equal(c.CurrentHabits(), before) {
			t.Errorf("CurrentHabits() = %v, want %v", c.CurrentHabits(), before)
		}
	})

	t.Run("metadata survives removal", func(t *testing.T) {
		profile := models.NewProfile("bob", "", "")
		c := NewCatalog(&profile)
		_ = c.AddHabit("reading", "pages", "daily")

		if err := c.RemoveHabit("Reading"); err != nil {
			t.Fatalf("RemoveHabit() error = %v", err)
		}
		if c.IsCurrent("reading") {
			t.Error("IsCurrent(reading) = true after removal")
		}
		if unit, err := c.UnitOf("reading"); err != nil || unit != "pages" {
			t.Errorf("UnitOf(reading) = %q, %v; want pages, nil", unit, err)
		}
		if p, err := c.PeriodicityOf("reading"); err != nil || p != models.Daily {
			t.Errorf("PeriodicityOf(reading) = %q, %v; want daily, nil", p, err)
		}
	})

	t.Run("re-adding after removal", func(t *testing.T) {
		profile := models.NewProfile("bob", "", "")
		c := NewCatalog(&profile)
		_ = c.AddHabit("reading", "pages", "daily")
		_ = c.RemoveHabit("reading")

		if err := c.AddHabit("reading", "chapters", "weekly"); err != nil {
			t.Fatalf("AddHabit() error = %v", err)
		}
		if unit, _ := c.UnitOf("reading"); unit != "chapters" {
			t.Errorf("UnitOf(reading) = %q, want chapters", unit)
		}
	})
}

func TestCatalogLegacyMixedCaseKeys(t *testing.T) {
	profile := models.Profile{
		Username:      "carol",
		CurrentHabits: []string{"reading"},
		Units:         map[string]string{"Reading": "pages"},
		Periods:       map[string]models.Periodicity{"Reading": models.Daily},
	}
	c := NewCatalog(&profile)

	if unit, err := c.UnitOf("reading"); err != nil || unit != "pages" {
		t.Errorf("UnitOf(reading) = %q, %v; want pages, nil", unit, err)
	}
}

func TestLogHistoryOf(t *testing.T) {
	l := NewLog(nil)
	l.Append(mustDay("2025-01-03"), "Reading", 3)
	l.Append(mustDay("2025-01-01"), "reading", 1)
	l.Append(mustDay("2025-01-03"), "reading", 4)
	l.Append(mustDay("2025-01-02"), "exercise", 30)
	l.Append(mustDay("2025-01-02"), "reading", 2)

	got := l.HistoryOf("READING")
	want := []HistoryEntry{
		{Date: mustDay("2025-01-01"), Value: 1},
		{Date: mustDay("2025-01-02"), Value: 2},
		{Date: mustDay("2025-01-03"), Value: 3},
		{Date: mustDay("2025-01-03"), Value: 4},
	}
	if !slices.Equal(got, want) {
		t.Errorf("HistoryOf(reading) = %v, want %v", got, want)
	}

	if habits := l.Habits(); !slices.Equal(habits, []string{"exercise", "reading"}) {
		t.Errorf("Habits() = %v, want [exercise reading]", habits)
	}
}

func TestLogCorrect(t *testing.T) {
	day := mustDay("2025-01-10")
	setup := func() *Log {
		l := NewLog(nil)
		l.Append(day, "exercise", 20)
		l.Append(mustDay("2025-01-09"), "exercise", 15)
		l.Append(day, "exercise", 40)
		return l
	}

	tests := []struct {
		name    string
		rank    int
		wantErr error
		want    []float64
	}{
		{name: "first match", rank: 1, want: []float64{15, 99, 40}},
		{name: "second match", rank: 2, want: []float64{15, 20, 99}},
		{name: "rank past matches", rank: 3, wantErr: ErrEntryNotFound, want: []float64{15, 20, 40}},
		{name: "zero rank", rank: 0, wantErr: ErrEntryNotFound, want: []float64{15, 20, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := setup()
			err := l.Correct(day, "Exercise", tt.rank, 99)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Correct() error = %v, want %v", err, tt.wantErr)
			}

			var values []float64
			for _, h := range l.HistoryOf("exercise") {
				values = append(values, h.Value)
			}
			if !slices.Equal(values, tt.want) {
				t.Errorf("values after Correct() = %v, want %v", values, tt.want)
			}
		})
	}

	t.Run("unknown date", func(t *testing.T) {
		l := setup()
		if err := l.Correct(mustDay("2024-12-31"), "exercise", 1, 5); !errors.Is(err, ErrEntryNotFound) {
			t.Errorf("Correct() error = %v, want ErrEntryNotFound", err)
		}
	})
}

func TestCalculateStreakDaily(t *testing.T) {
	t.Run("seven consecutive days", func(t *testing.T) {
		var history []HistoryEntry
		for i := 6; i >= 0; i-- {
			history = append(history, HistoryEntry{Date: daysBefore(i), Value: 1})
		}

		count, last, err := CalculateStreak(models.Daily, history, testToday)
		if err != nil {
			t.Fatalf("CalculateStreak() error = %v", err)
		}
		if count != 7 {
			t.Errorf("count = %d, want 7", count)
		}
		// the walk ends on the oldest day of the run
		if !last.Equal(daysBefore(6)) {
			t.Errorf("last = %s, want %s", utils.FormatDate(last), utils.FormatDate(daysBefore(6)))
		}
	})

	t.Run("gap truncates regardless of older data", func(t *testing.T) {
		var history []HistoryEntry
		for i := 20; i >= 4; i-- {
			history = append(history, HistoryEntry{Date: daysBefore(i)})
		}
		for i := 2; i >= 0; i-- {
			history = append(history, HistoryEntry{Date: daysBefore(i)})
		}

		count, last, err := CalculateStreak(models.Daily, history, testToday)
		if err != nil {
			t.Fatalf("CalculateStreak() error = %v", err)
		}
		if count != 3 {
			t.Errorf("count = %d, want 3", count)
		}
		if !last.Equal(daysBefore(2)) {
			t.Errorf("last = %s, want %s", utils.FormatDate(last), utils.FormatDate(daysBefore(2)))
		}
	})

	t.Run("not tracked today", func(t *testing.T) {
		history := []HistoryEntry{{Date: daysBefore(2)}, {Date: daysBefore(1)}}
		count, last, err := CalculateStreak(models.Daily, history, testToday)
		if err != nil {
			t.Fatalf("CalculateStreak() error = %v", err)
		}
		if count != 0 || !last.IsZero() {
			t.Errorf("CalculateStreak() = %d, %v; want 0, zero date", count, last)
		}
	})

	t.Run("duplicate day ends the walk", func(t *testing.T) {
		history := []HistoryEntry{{Date: daysBefore(1)}, {Date: testToday}, {Date: testToday}}
		count, _, err := CalculateStreak(models.Daily, history, testToday)
		if err != nil {
			t.Fatalf("CalculateStreak() error = %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		count, _, err := CalculateStreak(models.Daily, nil, testToday)
		if err != nil || count != 0 {
			t.Errorf("CalculateStreak() = %d, %v; want 0, nil", count, err)
		}
	})
}

func TestCalculateStreakWeekly(t *testing.T) {
	tests := []struct {
		name      string
		dates     []string
		wantCount int
		wantLast  string
	}{
		{
			name:      "one event per week on different weekdays",
			dates:     []string{"2025-01-01", "2025-01-12", "2025-01-13"},
			wantCount: 3,
			wantLast:  "2025-01-01",
		},
		{
			name:      "nothing in the current week",
			dates:     []string{"2025-01-06", "2025-01-12"},
			wantCount: 0,
		},
		{
			name:      "missing week stops the walk",
			dates:     []string{"2024-12-23", "2025-01-08", "2025-01-14"},
			wantCount: 2,
			wantLast:  "2025-01-08",
		},
		{
			name:      "second event in the same week ends the walk",
			dates:     []string{"2025-01-08", "2025-01-13", "2025-01-14"},
			wantCount: 1,
			wantLast:  "2025-01-14",
		},
		{
			name:      "sunday of current week counts",
			dates:     []string{"2025-01-19"},
			wantCount: 1,
			wantLast:  "2025-01-19",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var history []HistoryEntry
			for _, d := range tt.dates {
				history = append(history, HistoryEntry{Date: mustDay(d)})
			}

			count, last, err := CalculateStreak(models.Weekly, history, testToday)
			if err != nil {
				t.Fatalf("CalculateStreak() error = %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
			if utils.FormatDate(last) != tt.wantLast {
				t.Errorf("last = %q, want %q", utils.FormatDate(last), tt.wantLast)
			}
		})
	}
}

func TestCalculateStreakInvalidPeriodicity(t *testing.T) {
	_, _, err := CalculateStreak(models.Periodicity("monthly"), nil, testToday)
	if !errors.Is(err, ErrInvalidPeriodicity) {
		t.Errorf("CalculateStreak() error = %v, want ErrInvalidPeriodicity", err)
	}
}

func TestTrackerStreak(t *testing.T) {
	tr := newTestTracker(t, sampleEvents())

	s, err := tr.Streak("reading")
	if err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if s.Count != 35 {
		t.Errorf("Count = %d, want 35", s.Count)
	}
	if !s.Latest.Equal(testToday) {
		t.Errorf("Latest = %s, want %s", utils.FormatDate(s.Latest), utils.FormatDate(testToday))
	}
	if !s.LastDateTracked.Equal(daysBefore(34)) {
		t.Errorf("LastDateTracked = %s, want %s", utils.FormatDate(s.LastDateTracked), utils.FormatDate(daysBefore(34)))
	}

	if _, err := tr.Streak("painting"); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("Streak(painting) error = %v, want ErrHabitNotFound", err)
	}
}

func TestLongestStreak(t *testing.T) {
	t.Run("earlier start wins overall", func(t *testing.T) {
		tr := newTestTracker(t, sampleEvents())

		got, err := tr.LongestStreak()
		if err != nil {
			t.Fatalf("LongestStreak() error = %v", err)
		}
		if got.Daily == nil || got.Daily.Habit != "reading" || got.Daily.Count != 35 {
			t.Errorf("Daily = %+v, want reading with 35", got.Daily)
		}
		if got.Weekly == nil || got.Weekly.Habit != "exercise" || got.Weekly.Count != 5 {
			t.Errorf("Weekly = %+v, want exercise with 5", got.Weekly)
		}
		if got.Overall == nil || got.Overall.Habit != "reading" {
			t.Errorf("Overall = %+v, want reading", got.Overall)
		}
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		profile := models.NewProfile("dave", "", "")
		tr := New(&profile, []models.Event{
			{Date: testToday, Habit: "walking", Value: 1},
			{Date: testToday, Habit: "reading", Value: 1},
		}, testToday)
		_ = tr.Catalog.AddHabit("walking", "km", "daily")
		_ = tr.Catalog.AddHabit("reading", "pages", "daily")

		got, err := tr.LongestStreak()
		if err != nil {
			t.Fatalf("LongestStreak() error = %v", err)
		}
		if got.Daily == nil || got.Daily.Habit != "walking" {
			t.Errorf("Daily = %+v, want walking", got.Daily)
		}
		if got.Weekly != nil {
			t.Errorf("Weekly = %+v, want nil", got.Weekly)
		}
		if got.Overall != got.Daily {
			t.Errorf("Overall = %+v, want daily winner", got.Overall)
		}
	})

	t.Run("no habits", func(t *testing.T) {
		profile := models.NewProfile("erin", "", "")
		got, err := New(&profile, nil, testToday).LongestStreak()
		if err != nil {
			t.Fatalf("LongestStreak() error = %v", err)
		}
		if got.Daily != nil || got.Weekly != nil || got.Overall != nil {
			t.Errorf("LongestStreak() = %+v, want all nil", got)
		}
	})

	t.Run("untracked daily loses to tracked weekly", func(t *testing.T) {
		tr := newTestTracker(t, []models.Event{{Date: testToday, Habit: "exercise", Value: 30}})

		got, err := tr.LongestStreak()
		if err != nil {
			t.Fatalf("LongestStreak() error = %v", err)
		}
		if got.Overall == nil || got.Overall.Habit != "exercise" {
			t.Errorf("Overall = %+v, want exercise", got.Overall)
		}
	})
}

func TestIsBroken(t *testing.T) {
	tr := newTestTracker(t, sampleEvents())

	tests := []struct {
		name         string
		habit        string
		threshold    int
		wantReached  bool
		wantCount    int
		wantBrokenAt string
	}{
		{name: "daily reaches threshold", habit: "reading", threshold: 35, wantReached: true, wantCount: 35},
		{name: "daily stops early at threshold", habit: "reading", threshold: 10, wantReached: true, wantCount: 10},
		{name: "daily broken", habit: "reading", threshold: 40, wantCount: 35, wantBrokenAt: "2024-12-11"},
		{name: "weekly reaches threshold", habit: "exercise", threshold: 5, wantReached: true, wantCount: 5},
		{name: "weekly broken", habit: "exercise", threshold: 6, wantCount: 5, wantBrokenAt: "2024-12-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.IsBroken(tt.habit, tt.threshold)
			if err != nil {
				t.Fatalf("IsBroken() error = %v", err)
			}
			if got.Reached != tt.wantReached {
				t.Errorf("Reached = %v, want %v", got.Reached, tt.wantReached)
			}
			if got.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", got.Count, tt.wantCount)
			}
			if utils.FormatDate(got.BrokenAt) != tt.wantBrokenAt {
				t.Errorf("BrokenAt = %q, want %q", utils.FormatDate(got.BrokenAt), tt.wantBrokenAt)
			}
		})
	}

	t.Run("invalid threshold", func(t *testing.T) {
		if _, err := tr.IsBroken("reading", 0); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("IsBroken() error = %v, want ErrInvalidThreshold", err)
		}
	})
}

func TestAggregate(t *testing.T) {
	tr := newTestTracker(t, sampleEvents())

	tests := []struct {
		name  string
		task  AggregateTask
		scope Scope
		want  []AggregateRow
	}{
		{
			name:  "total current",
			task:  TaskTotal,
			scope: ScopeCurrent,
			want: []AggregateRow{
				{Habit: "exercise", Value: 300, Count: 5, Unit: "minutes"},
				{Habit: "reading", Value: 350, Count: 35, Unit: "pages"},
			},
		},
		{
			name:  "count all",
			task:  TaskCount,
			scope: ScopeAll,
			want: []AggregateRow{
				{Habit: "exercise", Value: 5, Count: 5},
				{Habit: "reading", Value: 35, Count: 35},
			},
		},
		{
			name:  "average all",
			task:  TaskAverage,
			scope: ScopeAll,
			want: []AggregateRow{
				{Habit: "exercise", Value: 60, Count: 5, Unit: "minutes"},
				{Habit: "reading", Value: 10, Count: 35, Unit: "pages"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Aggregate(tt.task, tt.scope)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregateRemovedHabit(t *testing.T) {
	tr := newTestTracker(t, sampleEvents())
	if err := tr.Catalog.RemoveHabit("exercise"); err != nil {
		t.Fatalf("RemoveHabit() error = %v", err)
	}

	current, err := tr.Aggregate(TaskTotal, ScopeCurrent)
	if err != nil {
		t.Fatalf("Aggregate(current) error = %v", err)
	}
	if len(current) != 1 || current[0].Habit != "reading" {
		t.Errorf("Aggregate(current) = %+v, want only reading", current)
	}

	all, err := tr.Aggregate(TaskTotal, ScopeAll)
	if err != nil {
		t.Fatalf("Aggregate(all) error = %v", err)
	}
	if len(all) != 2 || all[0].Unit != "minutes" {
		t.Errorf("Aggregate(all) = %+v, want exercise with retained unit", all)
	}
}

func TestAggregateUnknownMetadata(t *testing.T) {
	tr := newTestTracker(t, sampleEvents())
	tr.Track("yoga", 20)

	if _, err := tr.Aggregate(TaskAverage, ScopeAll); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("Aggregate(average, all) error = %v, want ErrHabitNotFound", err)
	}
	// counts need no unit
	if _, err := tr.Aggregate(TaskCount, ScopeAll); err != nil {
		t.Errorf("Aggregate(count, all) error = %v", err)
	}
}

func TestParseAggregateTask(t *testing.T) {
	if task, err := ParseAggregateTask(" Total "); err != nil || task != TaskTotal {
		t.Errorf("ParseAggregateTask(Total) = %q, %v", task, err)
	}
	if _, err := ParseAggregateTask("median"); !errors.Is(err, ErrInvalidAggregate) {
		t.Errorf("ParseAggregateTask(median) error = %v, want ErrInvalidAggregate", err)
	}
}

func TestSummary(t *testing.T) {
	tr := newTestTracker(t, sampleEvents())

	s, err := tr.Summary("reading")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.Count != 35 || s.Mean != 10 || s.Unit != "pages" {
		t.Errorf("Summary() = count %d mean %v unit %q", s.Count, s.Mean, s.Unit)
	}
}

func TestTodayReport(t *testing.T) {
	profile := models.NewProfile("frank", "", "")
	tr := New(&profile, []models.Event{
		{Date: testToday, Habit: "reading", Value: 12},
		{Date: mustDay("2025-01-13"), Habit: "swimming", Value: 1},
		{Date: mustDay("2025-01-12"), Habit: "exercise", Value: 45},
	}, testToday)
	_ = tr.Catalog.AddHabit("reading", "pages", "daily")
	_ = tr.Catalog.AddHabit("flossing", "times", "daily")
	_ = tr.Catalog.AddHabit("exercise", "minutes", "weekly")
	_ = tr.Catalog.AddHabit("swimming", "sessions", "weekly")

	report, err := tr.TodayReport()
	if err != nil {
		t.Fatalf("TodayReport() error = %v", err)
	}

	if !slices.Equal(report.DailyDone, []string{"reading"}) {
		t.Errorf("DailyDone = %v, want [reading]", report.DailyDone)
	}
	if !slices.Equal(report.DailyPending, []string{"flossing"}) {
		t.Errorf("DailyPending = %v, want [flossing]", report.DailyPending)
	}
	if !slices.Equal(report.WeeklyDone, []string{"swimming"}) {
		t.Errorf("WeeklyDone = %v, want [swimming]", report.WeeklyDone)
	}
	if !slices.Equal(report.WeeklyPending, []string{"exercise"}) {
		t.Errorf("WeeklyPending = %v, want [exercise]", report.WeeklyPending)
	}
	if report.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", report.Pending())
	}
	if utils.FormatDate(report.WeekStart) != "2025-01-13" {
		t.Errorf("WeekStart = %s, want 2025-01-13", utils.FormatDate(report.WeekStart))
	}
}

func TestTrackBackdated(t *testing.T) {
	tr := newTestTracker(t, nil)
	tr.Track("Reading", 5)
	ev := tr.TrackOn(mustDay("2025-01-01"), "reading", 7)

	if ev.Habit != "reading" {
		t.Errorf("TrackOn() habit = %q, want reading", ev.Habit)
	}
	history := tr.Log.HistoryOf("reading")
	if len(history) != 2 || history[0].Value != 7 || !history[1].Date.Equal(testToday) {
		t.Errorf("HistoryOf(reading) = %v", history)
	}
}
