package advisor

import "strings"

// Intent is the fixed-tag classification of a user's free-form question.
type Intent string

const (
	IntentCountOverdue Intent = "count_overdue"
	IntentClearOverdue Intent = "clear_overdue"
	IntentPlanWeek     Intent = "plan_week"
	IntentTopToday     Intent = "top_today"
	IntentOther        Intent = "other"
)

// Deterministic reports whether the intent is answered by the engine alone,
// with no dependency on the retrieval/LLM collaborators.
func (i Intent) Deterministic() bool {
	switch i {
	case IntentCountOverdue, IntentClearOverdue, IntentPlanWeek, IntentTopToday:
		return true
	}
	return false
}

// intentRule pairs a predicate with its tag. Rules overlap textually
// ("overdue" appears in two of them), so order carries the priority.
type intentRule struct {
	tag   Intent
	match func(t string) bool
}

var intentRules = []intentRule{
	{IntentCountOverdue, func(t string) bool {
		return (strings.Contains(t, "how many") || strings.Contains(t, "count")) &&
			strings.Contains(t, "overdue")
	}},
	{IntentClearOverdue, func(t string) bool {
		return strings.Contains(t, "overdue") &&
			containsAny(t, "clear", "finish", "first", "which")
	}},
	{IntentPlanWeek, func(t string) bool {
		return containsAny(t, "next 7 days", "plan my week", "schedule over the next")
	}},
	{IntentTopToday, func(t string) bool {
		return (strings.Contains(t, "top") && strings.Contains(t, "today")) ||
			containsAny(t, "what should i do today", "most urgent today")
	}},
}

// ClassifyIntent maps a raw question to exactly one intent tag. Matching is
// plain substring search on the lower-cased trimmed text, first rule wins,
// no state between calls. Empty questions classify as IntentOther.
func ClassifyIntent(question string) Intent {
	t := strings.ToLower(strings.TrimSpace(question))
	if t == "" {
		return IntentOther
	}
	for _, r := range intentRules {
		if r.match(t) {
			return r.tag
		}
	}
	return IntentOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
