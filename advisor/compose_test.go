package advisor

import (
	"strings"
	"testing"
)

func TestComposeTaskAnswerEmpty(t *testing.T) {
	for _, intent := range []Intent{IntentCountOverdue, IntentClearOverdue, IntentPlanWeek, IntentTopToday} {
		got := ComposeTaskAnswer(intent, nil)
		if got != noActiveTasksAnswer {
			t.Errorf("intent %q: got %q, want the no-active-tasks answer", intent, got)
		}
	}
}

func TestComposeCountOverdue(t *testing.T) {
	tasks := []Task{
		{Title: "Lab report", DaysUntilDue: intPtr(-2)},
		{Title: "Reading", DaysUntilDue: intPtr(3)},
		{Title: "Essay", DaysUntilDue: intPtr(-1)},
	}

	got := ComposeTaskAnswer(IntentCountOverdue, tasks)
	want := "You have 2 overdue task(s) out of 3 active task(s): Lab report, Essay. Please do it ASAP."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComposeCountOverdueNone(t *testing.T) {
	tasks := []Task{
		{Title: "Reading", DaysUntilDue: intPtr(3)},
	}

	got := ComposeTaskAnswer(IntentCountOverdue, tasks)
	want := "You have 0 overdue task(s) out of 1 active task(s). You're on track."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComposeCountOverdueCapsNames(t *testing.T) {
	tasks := []Task{
		{Title: "A", DaysUntilDue: intPtr(-1)},
		{Title: "B", DaysUntilDue: intPtr(-2)},
		{Title: "C", DaysUntilDue: intPtr(-3)},
		{Title: "D", DaysUntilDue: intPtr(-4)},
	}

	got := ComposeTaskAnswer(IntentCountOverdue, tasks)
	if !strings.Contains(got, "A, B, C.") {
		t.Errorf("names must list in insertion order capped at three: %q", got)
	}
	if strings.Contains(got, "D") {
		t.Errorf("fourth name must be dropped: %q", got)
	}
	if !strings.Contains(got, "4 overdue task(s) out of 4") {
		t.Errorf("count must include all overdue tasks: %q", got)
	}
}

func TestComposeTopTodayOverdueScenario(t *testing.T) {
	tasks := ExtractTasks("#1\nTitle: Submit report\nPriorityScore: 5\nDaysUntilDue: -2\n")

	got := ComposeTaskAnswer(IntentTopToday, tasks)

	if !strings.Contains(got, "Immediate focus:") {
		t.Errorf("missing immediate focus block: %q", got)
	}
	if !strings.Contains(got, "1. Submit report — overdue by 2 day(s) due on -.") {
		t.Errorf("overdue line malformed: %q", got)
	}
	if !strings.Contains(got, noTasksThisWeekLine) {
		t.Errorf("missing empty-week line: %q", got)
	}
	if !strings.Contains(got, "- Do **Submit report** first, then move to the next item if time allows.") {
		t.Errorf("missing plan bullet: %q", got)
	}
}

func TestComposePlanWeek(t *testing.T) {
	tasks := []Task{
		{Title: "Overdue essay", DaysUntilDue: intPtr(-1), Due: strPtr("2026-08-30")},
		{Title: "Quiz prep", DaysUntilDue: intPtr(2), Due: strPtr("2026-09-02")},
		{Title: "Group slides", DaysUntilDue: intPtr(5), Due: strPtr("2026-09-05")},
	}

	got := ComposeTaskAnswer(IntentPlanWeek, tasks)

	if !strings.Contains(got, "1. Overdue essay — overdue by 1 day(s) due on 2026-08-30.") {
		t.Errorf("immediate focus must take the overdue task: %q", got)
	}
	if !strings.Contains(got, "2. Quiz prep — due in 2 day(s) due on 2026-09-02.") {
		t.Errorf("week block must start numbering at 2: %q", got)
	}
	if !strings.Contains(got, "3. Group slides — due in 5 day(s) due on 2026-09-05.") {
		t.Errorf("week block must include the second due task: %q", got)
	}
	if !strings.Contains(got, "- Day 1: clear **Overdue essay** first (overdue tasks come first).") {
		t.Errorf("plan must clear overdue first: %q", got)
	}
	if !strings.Contains(got, "- Book 1 focused block for **Quiz prep** within the next 2–3 days.") {
		t.Errorf("plan must book the nearest due task: %q", got)
	}
}

// The week block excludes the immediate-focus record by identity, so two
// tasks sharing a title must not suppress each other.
func TestComposeWeekExcludesByRecordNotTitle(t *testing.T) {
	tasks := []Task{
		{Title: "Revision", DaysUntilDue: intPtr(0), Due: strPtr("2026-08-31")},
		{Title: "Revision", DaysUntilDue: intPtr(4), Due: strPtr("2026-09-04")},
	}

	got := ComposeTaskAnswer(IntentTopToday, tasks)

	if !strings.Contains(got, "1. Revision — due today (2026-08-31).") {
		t.Errorf("due-today record must take immediate focus: %q", got)
	}
	if !strings.Contains(got, "2. Revision — due in 4 day(s) due on 2026-09-04.") {
		t.Errorf("the duplicate title due later must still appear in the week block: %q", got)
	}
}

func TestComposeClearOverdueNoOverdue(t *testing.T) {
	tasks := []Task{
		{Title: "Reading", DaysUntilDue: intPtr(3)},
	}

	got := ComposeTaskAnswer(IntentClearOverdue, tasks)
	if !strings.Contains(got, "- No overdue tasks — use today to pre-finish the nearest due task.") {
		t.Errorf("missing no-overdue plan bullet: %q", got)
	}
}

func TestComposeDeterministic(t *testing.T) {
	tasks := []Task{
		{Title: "A", DaysUntilDue: intPtr(-1)},
		{Title: "B", DaysUntilDue: intPtr(1)},
		{Title: "C"},
	}

	first := ComposeTaskAnswer(IntentPlanWeek, tasks)
	second := ComposeTaskAnswer(IntentPlanWeek, tasks)
	if first != second {
		t.Error("same input must produce identical bytes")
	}
}

func TestReasonForBuckets(t *testing.T) {
	cases := []struct {
		name string
		task Task
		want string
	}{
		{"no due date", Task{}, "No due date set — set/confirm due date to avoid surprise deadlines."},
		{"overdue", Task{DaysUntilDue: intPtr(-3)}, "Overdue by 3 day(s) — clearing it reduces backlog pressure."},
		{"due today", Task{DaysUntilDue: intPtr(0)}, "Due today — finish it to avoid becoming overdue."},
		{"near", Task{DaysUntilDue: intPtr(2)}, "Due in 2 day(s) — do early to keep buffer for unexpected issues."},
		{"this week", Task{DaysUntilDue: intPtr(6)}, "Due in 6 day(s) — schedule a focused block this week."},
		{"later", Task{DaysUntilDue: intPtr(12)}, "Due in 12 day(s) — lower urgency right now; plan ahead."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reasonFor(tc.task); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
