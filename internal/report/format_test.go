package report

import (
	"testing"

	"BudgetLens/internal/table"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 ₺"},
		{950, "950 ₺"},
		{1234567.89, "1,234,568 ₺"},
		{-4500, "-4,500 ₺"},
		{1000000, "1,000,000 ₺"},
	}
	for _, c := range cases {
		if got := FormatCurrency(dec(c.in)); got != c.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPercents(t *testing.T) {
	if got := FormatVariancePct(dec(-13.333333)); got != "-13.33 %" {
		t.Errorf("variance pct = %q", got)
	}
	if got := FormatUsagePct(dec(87.5), true); got != "87.50 %" {
		t.Errorf("usage pct = %q", got)
	}
	if got := FormatUsagePct(dec(0), false); got != "—" {
		t.Errorf("undefined usage = %q, want marker", got)
	}
	if got := FormatRatio(dec(12.34)); got != "12.3 %" {
		t.Errorf("ratio = %q", got)
	}
}

func hasRule(rules []HighlightRule, want HighlightRule) bool {
	for _, r := range rules {
		if r == want {
			return true
		}
	}
	return false
}

func TestEvaluateHighlights(t *testing.T) {
	tbl := table.New([]string{
		"Masraf Yeri Adı", "Kümüle Bütçe", "Kümüle Fiili",
		"Ocak Bütçe", "Ocak Fiili", "Kümüle BE-Fiili Fark Bakiye",
	})
	// Row 0: over cumulative budget and negative balance.
	tbl.AppendRow([]table.Cell{
		table.TextCell("A"), table.NumberCell(dec(100)), table.NumberCell(dec(150)),
		table.NumberCell(dec(50)), table.NumberCell(dec(40)), table.NumberCell(dec(-10)),
	})
	// Row 1: monthly overrun only.
	tbl.AppendRow([]table.Cell{
		table.TextCell("B"), table.NumberCell(dec(100)), table.NumberCell(dec(80)),
		table.NumberCell(dec(50)), table.NumberCell(dec(60)), table.NumberCell(dec(5)),
	})
	// Row 2: clean.
	tbl.AppendRow([]table.Cell{
		table.TextCell("C"), table.NumberCell(dec(100)), table.NumberCell(dec(90)),
		table.NumberCell(dec(50)), table.NumberCell(dec(45)), table.NumberCell(dec(5)),
	})

	h := EvaluateHighlights(tbl)
	if !hasRule(h[0], HighlightOverBudget) || !hasRule(h[0], HighlightNegativeBalance) {
		t.Errorf("row 0 rules = %v", h[0])
	}
	if hasRule(h[0], HighlightMonthlyOverrun) {
		t.Errorf("row 0 must not flag monthly overrun: %v", h[0])
	}
	if !hasRule(h[1], HighlightMonthlyOverrun) || hasRule(h[1], HighlightOverBudget) {
		t.Errorf("row 1 rules = %v", h[1])
	}
	if _, ok := h[2]; ok {
		t.Errorf("clean row flagged: %v", h[2])
	}
}
