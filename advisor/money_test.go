package advisor

import (
	"strings"
	"testing"
)

const moneySummaryFixture = `MY MONEY SNAPSHOT (LAST 30 DAYS)
TransactionsCount: 42
Income: RM 1500.00
Expenses: RM 1620.00
Cashflow: RM -120.00
SavingsRate: 0.0%
TopAccount: Maybank
TopCategory: Food (RM 480.00)
SmallPurchasesCount (<= RM10): 14
`

func TestExtractMoneySummary(t *testing.T) {
	s := ExtractMoneySummary(moneySummaryFixture)

	if s.TransactionsCount == nil || *s.TransactionsCount != 42 {
		t.Errorf("TransactionsCount = %v, want 42", s.TransactionsCount)
	}
	if s.Income == nil || *s.Income != 1500.00 {
		t.Errorf("Income = %v, want 1500.00", s.Income)
	}
	if s.Expenses == nil || *s.Expenses != 1620.00 {
		t.Errorf("Expenses = %v, want 1620.00", s.Expenses)
	}
	if s.Cashflow == nil || *s.Cashflow != -120.00 {
		t.Errorf("Cashflow = %v, want -120.00", s.Cashflow)
	}
	if s.SavingsRate == nil || *s.SavingsRate != 0.0 {
		t.Errorf("SavingsRate = %v, want 0.0", s.SavingsRate)
	}
	if s.TopAccount == nil || *s.TopAccount != "Maybank" {
		t.Errorf("TopAccount = %v, want Maybank", s.TopAccount)
	}
	if s.TopCategory == nil || *s.TopCategory != "Food" {
		t.Errorf("TopCategory = %v, want Food (amount stripped)", s.TopCategory)
	}
	if s.SmallPurchasesCount == nil || *s.SmallPurchasesCount != 14 {
		t.Errorf("SmallPurchasesCount = %v, want 14", s.SmallPurchasesCount)
	}
}

func TestExtractMoneySummaryPlaceholders(t *testing.T) {
	s := ExtractMoneySummary("TopAccount: -\nTopCategory: null (RM 0.00)\n")
	if s.TopAccount != nil {
		t.Errorf("placeholder '-' must parse as absent, got %q", *s.TopAccount)
	}
	if s.TopCategory != nil {
		t.Errorf("placeholder 'null' must parse as absent, got %q", *s.TopCategory)
	}
}

func TestExtractMoneySummaryEmpty(t *testing.T) {
	s := ExtractMoneySummary("how do I save more money?")
	if s.Income != nil || s.Expenses != nil || s.Cashflow != nil {
		t.Errorf("plain question must yield an empty summary: %+v", s)
	}
}

func TestComposeMoneyAdviceNegativeCashflow(t *testing.T) {
	got := ComposeMoneyAdvice(ExtractMoneySummary(moneySummaryFixture))

	if !strings.Contains(got, "1) What's happening") ||
		!strings.Contains(got, "2) What to do this week (with RM targets)") ||
		!strings.Contains(got, "3) Longer-term plan") {
		t.Fatalf("missing section headers: %q", got)
	}
	if !strings.Contains(got, "NEGATIVE cashflow of RM 120.00 (income RM 1500.00, expenses RM 1620.00)") {
		t.Errorf("negative cashflow line malformed: %q", got)
	}
	// reduction target is |cashflow| + 50
	if !strings.Contains(got, "reduce this month's expenses by at least RM 170") {
		t.Errorf("reduction target must be RM 170: %q", got)
	}
	if !strings.Contains(got, "highest spending category is Food") {
		t.Errorf("missing top category line: %q", got)
	}
	if !strings.Contains(got, "14 small purchases (≤ RM10)") {
		t.Errorf("missing small purchases nudge: %q", got)
	}
	if !strings.Contains(got, "RM 20–30 total") {
		t.Errorf("missing small purchases weekly cap: %q", got)
	}
}

func TestComposeMoneyAdviceSavingsTarget(t *testing.T) {
	cases := []struct {
		name     string
		cashflow float64
		want     string
	}{
		// 40% of cashflow, floored at RM 50
		{"large positive", 500, "Move at least RM 200 into savings"},
		{"small positive", 80, "Move at least RM 50 into savings"},
		{"breakeven", 0, "Move at least RM 50 into savings"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := MoneySummary{
				Income:   floatPtr(2000),
				Expenses: floatPtr(2000 - tc.cashflow),
				Cashflow: floatPtr(tc.cashflow),
			}
			got := ComposeMoneyAdvice(s)
			if !strings.Contains(got, tc.want) {
				t.Errorf("got %q, want it to contain %q", got, tc.want)
			}
		})
	}
}

func TestComposeMoneyAdviceMissingNumbers(t *testing.T) {
	got := ComposeMoneyAdvice(MoneySummary{})

	if !strings.Contains(got, "I don't have full numbers yet") {
		t.Errorf("missing degraded opening line: %q", got)
	}
	if !strings.Contains(got, "'leaking' money") {
		t.Errorf("missing generic category bullet: %q", got)
	}
	if !strings.Contains(got, "3) Longer-term plan") {
		t.Errorf("long-term section must always be present: %q", got)
	}
	if strings.Contains(got, "Move at least") || strings.Contains(got, "reduce this month's expenses") {
		t.Errorf("no RM target without a cashflow figure: %q", got)
	}
}

func floatPtr(f float64) *float64 { return &f }
