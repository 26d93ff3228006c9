package advisor

import (
	"fmt"
	"strings"
)

// The composer renders ranked records into fixed-format prose. Output is a
// pure function of the intent and the record sequence; the same input always
// produces the same bytes.

const (
	noActiveTasksAnswer = "No active tasks found. Add tasks (with due dates) and ask again."

	noTasksThisWeekLine = "No tasks due within the next 7 days. Use this time to clear overdue work or prepare ahead."
)

// reasonFor returns the one-sentence rationale for a task, selected by its
// day-distance bucket. The six templates are mutually exclusive.
func reasonFor(t Task) string {
	if t.DaysUntilDue == nil {
		return "No due date set — set/confirm due date to avoid surprise deadlines."
	}
	d := *t.DaysUntilDue
	switch {
	case d < 0:
		return fmt.Sprintf("Overdue by %d day(s) — clearing it reduces backlog pressure.", -d)
	case d == 0:
		return "Due today — finish it to avoid becoming overdue."
	case d <= 3:
		return fmt.Sprintf("Due in %d day(s) — do early to keep buffer for unexpected issues.", d)
	case d <= 7:
		return fmt.Sprintf("Due in %d day(s) — schedule a focused block this week.", d)
	default:
		return fmt.Sprintf("Due in %d day(s) — lower urgency right now; plan ahead.", d)
	}
}

// suggestedPlan picks at most a handful of plan bullets for the intent; the
// composer keeps the first two. Pools are already in urgency order.
func suggestedPlan(intent Intent, selected, overduePool, dueWeekPool []Task) []string {
	var plan []string

	switch intent {
	case IntentClearOverdue:
		if len(overduePool) > 0 {
			plan = append(plan, fmt.Sprintf("Finish **%s** today (it’s the most overdue).", overduePool[0].Title))
			if len(overduePool) > 1 {
				plan = append(plan, "If time remains, start the next overdue item to stop backlog growing.")
			}
		} else {
			plan = append(plan, "No overdue tasks — use today to pre-finish the nearest due task.")
		}
		return plan

	case IntentPlanWeek:
		if len(overduePool) > 0 {
			plan = append(plan, fmt.Sprintf("Day 1: clear **%s** first (overdue tasks come first).", overduePool[0].Title))
		}
		if len(dueWeekPool) > 0 {
			plan = append(plan, fmt.Sprintf("Book 1 focused block for **%s** within the next 2–3 days.", dueWeekPool[0].Title))
			if len(dueWeekPool) > 1 {
				plan = append(plan, fmt.Sprintf("Reserve another block later this week for **%s**.", dueWeekPool[1].Title))
			}
		} else {
			plan = append(plan, "No tasks due within 7 days — use this week to clear overdue work or set due dates/steps.")
		}
		return plan
	}

	// top_today and the generic fallback structure
	if len(selected) > 0 {
		plan = append(plan, fmt.Sprintf("Do **%s** first, then move to the next item if time allows.", selected[0].Title))
		if len(selected) >= 2 {
			plan = append(plan, fmt.Sprintf("If you finish early, start **%s** to reduce future pressure.", selected[1].Title))
		}
	} else {
		plan = append(plan, "No active tasks — add tasks with due dates so the assistant can prioritize accurately.")
	}
	return plan
}

// ComposeTaskAnswer renders the deterministic answer for one of the four
// task intents (and doubles as the generic structure for anything handed a
// ranked task list).
func ComposeTaskAnswer(intent Intent, tasks []Task) string {
	if len(tasks) == 0 {
		return noActiveTasksAnswer
	}

	order := urgencyOrder(tasks)

	var overdueIdx, dueWeekIdx, immediateIdx []int
	for _, i := range order {
		d := tasks[i].DaysUntilDue
		if d == nil {
			continue
		}
		if *d < 0 {
			overdueIdx = append(overdueIdx, i)
		}
		if *d >= 0 && *d <= 7 {
			dueWeekIdx = append(dueWeekIdx, i)
		}
		if *d <= 0 {
			immediateIdx = append(immediateIdx, i)
		}
	}

	if intent == IntentCountOverdue {
		return composeCountOverdue(tasks)
	}

	var lines []string

	// Immediate focus: most urgent record among overdue/due-today, else the
	// top-ranked record overall. Remember which record was used so the week
	// block can exclude it by identity, not by title.
	lines = append(lines, "Immediate focus:")
	var usedIdx int
	if len(immediateIdx) > 0 {
		usedIdx = immediateIdx[0]
		t1 := tasks[usedIdx]
		d := *t1.DaysUntilDue
		if d < 0 {
			lines = append(lines, fmt.Sprintf("1. %s — overdue by %d day(s) due on %s. %s", t1.Title, -d, t1.dueDisplay(), reasonFor(t1)))
		} else {
			lines = append(lines, fmt.Sprintf("1. %s — due today (%s). %s", t1.Title, t1.dueDisplay(), reasonFor(t1)))
		}
	} else {
		usedIdx = order[0]
		t1 := tasks[usedIdx]
		if t1.DaysUntilDue == nil {
			lines = append(lines, fmt.Sprintf("1. %s — no due date. %s", t1.Title, reasonFor(t1)))
		} else {
			lines = append(lines, fmt.Sprintf("1. %s — due in %d day(s) due on %s. %s", t1.Title, *t1.DaysUntilDue, t1.dueDisplay(), reasonFor(t1)))
		}
	}

	// This week: up to two more records due within 7 days, numbered from 2.
	lines = append(lines, "", "This week:")
	var week []Task
	for _, i := range dueWeekIdx {
		if i != usedIdx {
			week = append(week, tasks[i])
		}
	}
	if len(week) > 0 {
		if len(week) > 2 {
			week = week[:2]
		}
		for n, t := range week {
			if t.DaysUntilDue == nil {
				lines = append(lines, fmt.Sprintf("%d. %s — no due date. %s", n+2, t.Title, reasonFor(t)))
			} else {
				lines = append(lines, fmt.Sprintf("%d. %s — due in %d day(s) due on %s. %s", n+2, t.Title, *t.DaysUntilDue, t.dueDisplay(), reasonFor(t)))
			}
		}
	} else {
		lines = append(lines, noTasksThisWeekLine)
	}

	// Suggested plan: at most two bullets, policy depends on the intent.
	overduePool := make([]Task, 0, len(overdueIdx))
	for _, i := range overdueIdx {
		overduePool = append(overduePool, tasks[i])
	}
	dueWeekPool := make([]Task, 0, len(dueWeekIdx))
	for _, i := range dueWeekIdx {
		dueWeekPool = append(dueWeekPool, tasks[i])
	}
	plan := suggestedPlan(intent, TopN(tasks, 3), overduePool, dueWeekPool)
	if len(plan) > 2 {
		plan = plan[:2]
	}
	lines = append(lines, "", "Suggested plan:")
	for _, p := range plan {
		lines = append(lines, "- "+p)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// composeCountOverdue reports the overdue count; titles list in insertion
// order, capped at three.
func composeCountOverdue(tasks []Task) string {
	total := len(tasks)
	count := 0
	var names []string
	for _, t := range tasks {
		if t.DaysUntilDue != nil && *t.DaysUntilDue < 0 {
			count++
			if len(names) < 3 {
				names = append(names, t.Title)
			}
		}
	}
	if count == 0 {
		return fmt.Sprintf("You have 0 overdue task(s) out of %d active task(s). You're on track.", total)
	}
	return fmt.Sprintf("You have %d overdue task(s) out of %d active task(s): %s. Please do it ASAP.",
		count, total, strings.Join(names, ", "))
}
