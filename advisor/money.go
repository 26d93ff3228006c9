package advisor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Money-coach variant: the frontend encodes a 30-day financial summary into
// the prompt text; the engine recovers the numbers and renders a fixed
// three-section report. No LLM is involved on this path.

// moneyFieldSpec mirrors the task field grammar: name, pattern, coercion.
type moneyFieldSpec struct {
	name    string
	pattern *regexp.Regexp
	apply   func(s *MoneySummary, g []string)
}

var moneyFieldGrammar = []moneyFieldSpec{
	{
		name:    "TransactionsCount",
		pattern: regexp.MustCompile(`(?m)TransactionsCount:\s*(\d+)`),
		apply:   func(s *MoneySummary, g []string) { s.TransactionsCount = parseOptInt(g[1]) },
	},
	{
		name:    "Income",
		pattern: regexp.MustCompile(`(?m)Income:\s*RM\s*([\-0-9\.]+)`),
		apply:   func(s *MoneySummary, g []string) { s.Income = parseOptFloat(g[1]) },
	},
	{
		name:    "Expenses",
		pattern: regexp.MustCompile(`(?m)Expenses:\s*RM\s*([\-0-9\.]+)`),
		apply:   func(s *MoneySummary, g []string) { s.Expenses = parseOptFloat(g[1]) },
	},
	{
		name:    "Cashflow",
		pattern: regexp.MustCompile(`(?m)Cashflow:\s*RM\s*([\-0-9\.]+)`),
		apply:   func(s *MoneySummary, g []string) { s.Cashflow = parseOptFloat(g[1]) },
	},
	{
		name:    "SavingsRate",
		pattern: regexp.MustCompile(`(?m)SavingsRate:\s*([0-9\.]+)%`),
		apply:   func(s *MoneySummary, g []string) { s.SavingsRate = parseOptFloat(g[1]) },
	},
	{
		name:    "TopAccount",
		pattern: regexp.MustCompile(`(?m)TopAccount:\s*(.+)`),
		apply:   func(s *MoneySummary, g []string) { s.TopAccount = parseOptLabel(g[1]) },
	},
	{
		name:    "TopCategory",
		pattern: regexp.MustCompile(`(?m)TopCategory:\s*(.+?)\s*\(RM`),
		apply:   func(s *MoneySummary, g []string) { s.TopCategory = parseOptLabel(g[1]) },
	},
	{
		name:    "SmallPurchasesCount",
		pattern: regexp.MustCompile(`(?m)SmallPurchasesCount.*?:\s*(\d+)`),
		apply:   func(s *MoneySummary, g []string) { s.SmallPurchasesCount = parseOptInt(g[1]) },
	},
}

// ExtractMoneySummary recovers the numeric summary from a money prompt.
// Fields that are missing or fail to parse stay absent; it never fails.
func ExtractMoneySummary(text string) MoneySummary {
	var s MoneySummary
	for _, spec := range moneyFieldGrammar {
		if g := spec.pattern.FindStringSubmatch(text); g != nil {
			spec.apply(&s, g)
		}
	}
	return s
}

func parseOptInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

func parseOptFloat(raw string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseOptLabel trims the capture and normalizes placeholder tokens to
// absent.
func parseOptLabel(raw string) *string {
	v := strings.TrimSpace(raw)
	switch v {
	case "", "-", "null", "None":
		return nil
	}
	return &v
}

// Targets for the "what to do this week" section.
const (
	// flat buffer added on top of a negative cashflow when computing the
	// expense-reduction target
	reductionBuffer = 50.0
	// minimum savings target when cashflow is non-negative
	savingsFloor = 50.0
	// share of a positive cashflow that should move into savings
	savingsShare = 0.4
	// small-purchase count at which the nudge bullets appear
	smallPurchasesNudge = 10
)

// ComposeMoneyAdvice renders the three-section money report from the numeric
// summary alone. Missing inputs degrade to generic sentences; every section
// is always present.
func ComposeMoneyAdvice(s MoneySummary) string {
	smallPurchases := 0
	if s.SmallPurchasesCount != nil {
		smallPurchases = *s.SmallPurchasesCount
	}

	var lines []string

	// 1) What's happening
	lines = append(lines, "1) What's happening")

	if s.Income == nil || s.Expenses == nil || s.Cashflow == nil {
		lines = append(lines,
			"- I don't have full numbers yet, but you already have some "+
				"transactions recorded. Once income and expenses are filled in, I "+
				"can summarise your cashflow more precisely.")
	} else {
		cashflow, income, expenses := *s.Cashflow, *s.Income, *s.Expenses
		switch {
		case cashflow < 0:
			lines = append(lines, fmt.Sprintf(
				"- Your last 30 days show a NEGATIVE cashflow of RM %.2f (income RM %.2f, expenses RM %.2f).",
				-cashflow, income, expenses))
		case cashflow == 0:
			lines = append(lines, fmt.Sprintf(
				"- Your cashflow is roughly breakeven (income RM %.2f, expenses RM %.2f).",
				income, expenses))
		default:
			lines = append(lines, fmt.Sprintf(
				"- You have a POSITIVE cashflow of RM %.2f over the last 30 days (income RM %.2f, expenses RM %.2f).",
				cashflow, income, expenses))
		}

		if s.SavingsRate != nil {
			lines = append(lines, fmt.Sprintf(
				"- Your estimated savings rate is about %.1f%% of income.", *s.SavingsRate))
		}
		if s.TopCategory != nil {
			lines = append(lines, fmt.Sprintf(
				"- Your highest spending category is %s.", *s.TopCategory))
		}
		if smallPurchases >= smallPurchasesNudge {
			lines = append(lines, fmt.Sprintf(
				"- You also have %d small purchases (≤ RM10) which can quietly increase your monthly spending.",
				smallPurchases))
		}
	}

	// 2) What to do this week
	lines = append(lines, "", "2) What to do this week (with RM targets)")

	if s.Cashflow != nil {
		if *s.Cashflow < 0 {
			target := -*s.Cashflow + reductionBuffer
			lines = append(lines, fmt.Sprintf(
				"- Aim to reduce this month's expenses by at least RM %.0f to turn your cashflow positive (start with wants, not needs).",
				target))
		} else {
			saveTarget := *s.Cashflow * savingsShare
			if saveTarget < savingsFloor {
				saveTarget = savingsFloor
			}
			lines = append(lines, fmt.Sprintf(
				"- Move at least RM %.0f into savings or a separate account so it is not spent by accident.",
				saveTarget))
		}
	}

	if s.TopCategory != nil {
		lines = append(lines, fmt.Sprintf(
			"- Pick ONE rule for %s (for example: cap it by RM 50–100 less than this month) and track it inside the app.",
			*s.TopCategory))
	} else {
		lines = append(lines,
			"- Identify one category you feel is 'leaking' money and set a simple weekly cap for it (e.g. snacks, rides, subscriptions).")
	}

	if smallPurchases >= smallPurchasesNudge {
		lines = append(lines,
			"- For the next 7 days, group small purchases and limit them to a fixed amount (for example RM 20–30 total).")
	}

	lines = append(lines,
		"- Log every expense in the app this week so future advice reflects your real behaviour.")

	// 3) Longer-term plan
	lines = append(lines, "", "3) Longer-term plan",
		"- Build a simple monthly budget: split income into needs, wants, and savings, and review it at the end of each month.",
		"- Once you can consistently save each month, set a target emergency fund of at least 3 months of essential expenses.",
		"- Revisit this Money Coach every few weeks to adjust RM targets based on how your income and spending change.")

	return strings.Join(lines, "\n")
}
