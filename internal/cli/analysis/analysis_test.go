package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/habitual/habitual/internal/cli/clitest"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/suggest"
	"github.com/habitual/habitual/internal/tracker"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		scope tracker.Scope
		tasks []tracker.AggregateTask
		want  []string
	}{
		{
			name:  "totals of current habits",
			scope: tracker.ScopeCurrent,
			tasks: []tracker.AggregateTask{tracker.TaskTotal},
			want:  []string{"For Habit: reading, you TOTALLED 350 pages", "For Habit: exercise, you TOTALLED 300 minutes"},
		},
		{
			name:  "counts of all habits",
			scope: tracker.ScopeAll,
			tasks: []tracker.AggregateTask{tracker.TaskCount},
			want:  []string{"For Habit: reading, you TRACKED 35 times", "For Habit: exercise, you TRACKED 5 times"},
		},
		{
			name:  "every statistic by default",
			scope: tracker.ScopeCurrent,
			want:  []string{"AVERAGED 10 pages", "TOTALLED 350 pages", "TRACKED 5 times"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.NewUserContext(t)
			clitest.Sample(t, ctx)

			if err := Analyze(ctx, tt.scope, tt.tasks...); err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestAnalyzeUnknownHabitMetadata(t *testing.T) {
	ctx, _ := clitest.NewUserContext(t)
	clitest.Seed(t, ctx, nil, clitest.Daily("chess", 3, 1))

	if err := Analyze(ctx, tracker.ScopeAll, tracker.TaskTotal); !errors.Is(err, tracker.ErrHabitNotFound) {
		t.Errorf("Analyze() error = %v, want ErrHabitNotFound", err)
	}
	if err := Analyze(ctx, "some"); err == nil {
		t.Error("Analyze() with bad scope expected error")
	}
}

func TestStreakAndLongest(t *testing.T) {
	ctx, out := clitest.NewUserContext(t)
	clitest.Sample(t, ctx)

	if err := Streak(ctx, "reading"); err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if !strings.Contains(out.String(), "Your streak for the habit reading is 35 days since 2024-12-12") {
		t.Errorf("Streak() output = %q", out.String())
	}

	out.Reset()
	if err := Longest(ctx); err != nil {
		t.Fatalf("Longest() error = %v", err)
	}
	for _, want := range []string{
		"Your current longest daily streak is 35 for reading since 2024-12-12",
		"Your current longest weekly streak is 5 for exercise since 2024-12-18",
		"The habit you have been tracking for the longest time is reading since 2024-12-12",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Longest() output missing %q:\n%s", want, out.String())
		}
	}
}

func TestStreakNone(t *testing.T) {
	ctx, out := clitest.NewUserContext(t)
	clitest.Seed(t, ctx, []clitest.Habit{{Name: "reading", Unit: "pages", Period: models.Daily}}, nil)

	if err := Streak(ctx, "reading"); err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if !strings.Contains(out.String(), "You have no streak for the habit reading") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBroken(t *testing.T) {
	tests := []struct {
		name      string
		habit     string
		threshold int
		want      string
	}{
		{name: "daily reached", habit: "reading", threshold: 35, want: "You had a streak for reading for the last 35 days"},
		{name: "weekly broken", habit: "exercise", threshold: 6, want: "You had a streak of 5 but it was broken on the week of 2024-12-09"},
		{name: "daily broken", habit: "reading", threshold: 40, want: "You had a streak of 35 but it was broken on 2024-12-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.NewUserContext(t)
			clitest.Sample(t, ctx)

			if err := Broken(ctx, tt.habit, tt.threshold); err != nil {
				t.Fatalf("Broken() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestBrokenInvalidThreshold(t *testing.T) {
	ctx, _ := clitest.NewUserContext(t)
	clitest.Sample(t, ctx)

	if err := Broken(ctx, "reading", 0); !errors.Is(err, tracker.ErrInvalidThreshold) {
		t.Errorf("Broken() error = %v, want ErrInvalidThreshold", err)
	}
}

func TestReport(t *testing.T) {
	ctx, out := clitest.NewUserContext(t)
	clitest.Seed(t, ctx, []clitest.Habit{
		{Name: "reading", Unit: "pages", Period: models.Daily},
		{Name: "meditation", Unit: "minutes", Period: models.Daily},
		{Name: "exercise", Unit: "minutes", Period: models.Weekly},
	}, append(clitest.Daily("reading", 1, 5), models.Event{Date: clitest.Today.AddDate(0, 0, -2), Habit: "exercise", Value: 30}))

	if err := Report(ctx); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	for _, want := range []string{
		"Habits tracked today: reading",
		"Habits not yet completed today: meditation",
		"Congratulations!! You've finished all of your weekly habits",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSuggest(t *testing.T) {
	ctx, out := clitest.NewUserContext(t)
	if err := Suggest(ctx); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if !strings.Contains(out.String(), "Habit 1. Walking") {
		t.Errorf("output = %q", out.String())
	}

	ctx.Suggester = suggest.Unavailable{}
	if err := Suggest(ctx); !errors.Is(err, suggest.ErrUnavailable) {
		t.Errorf("Suggest() error = %v, want ErrUnavailable", err)
	}
}
