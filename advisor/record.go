// Package advisor implements the deterministic advice engine: it recovers
// typed records from a loosely formatted context blob, classifies the user's
// question into a fixed intent set, ranks task records by urgency and renders
// a fixed-structure answer. Everything in this package is pure and
// side-effect-free per invocation; collaborators (vector store, LLM) are
// consumed through interfaces on the orchestrator only.
package advisor

// Task is one record extracted from a task context blob. Optional fields are
// pointers so that "absent" and "present with a zero-like value" stay
// distinguishable (DaysUntilDue = 0 means due today, nil means no due date).
// A Task is immutable after extraction.
type Task struct {
	Title        string
	Details      *string
	Priority     int
	DaysUntilDue *int
	Start        *string
	Due          *string
	Overdue      bool
	RawSegment   string
}

// dueDisplay returns the display due date, or "-" when none was extracted.
func (t Task) dueDisplay() string {
	if t.Due == nil || *t.Due == "" {
		return "-"
	}
	return *t.Due
}

// MoneySummary is one record extracted from a financial summary blob.
// Every field is optional; the money composer degrades to generic wording
// for whatever is missing.
type MoneySummary struct {
	TransactionsCount   *int
	Income              *float64
	Expenses            *float64
	Cashflow            *float64
	SavingsRate         *float64
	TopAccount          *string
	TopCategory         *string
	SmallPurchasesCount *int
}
