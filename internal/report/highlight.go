package report

import (
	"BudgetLens/internal/schema"
	"BudgetLens/internal/table"

	"github.com/shopspring/decimal"
)

// HighlightRule is the closed set of row-flagging conditions exporters may
// style. Each rule is an explicit predicate over typed column accessors, not
// a substring match against header names.
type HighlightRule int

const (
	// HighlightOverBudget: cumulative actual exceeds cumulative budget.
	HighlightOverBudget HighlightRule = iota
	// HighlightMonthlyOverrun: some month's actual exceeds that month's budget.
	HighlightMonthlyOverrun
	// HighlightNegativeBalance: a variance-balance metric went negative.
	HighlightNegativeBalance
)

// RowHighlights maps row index to the rules that fired on it. Rows with no
// findings are absent.
type RowHighlights map[int][]HighlightRule

// EvaluateHighlights runs every rule over the table once.
func EvaluateHighlights(t *table.Table) RowHighlights {
	// Balance columns are fixed by the schema, resolved up front.
	var balanceCols []string
	for _, c := range t.Columns() {
		kind, _, base := schema.Classify(c)
		if (kind == schema.KindMonthly || kind == schema.KindCumulative) &&
			(base == "Bütçe-Fiili Fark Bakiye" || base == "BE-Fiili Fark Bakiye") {
			balanceCols = append(balanceCols, c)
		}
	}

	out := make(RowHighlights)
	for row := 0; row < t.NumRows(); row++ {
		var rules []HighlightRule

		budget, bok := t.Number(row, schema.ColCumulativeBudget)
		actual, aok := t.Number(row, schema.ColCumulativeActual)
		if bok && aok && actual.GreaterThan(budget) {
			rules = append(rules, HighlightOverBudget)
		}

		for _, month := range schema.Months {
			mb, mbok := t.Number(row, schema.MonthlyColumn(month, "Bütçe"))
			ma, maok := t.Number(row, schema.MonthlyColumn(month, "Fiili"))
			if mbok && maok && ma.GreaterThan(mb) {
				rules = append(rules, HighlightMonthlyOverrun)
				break
			}
		}

		for _, c := range balanceCols {
			if v, ok := t.Number(row, c); ok && v.LessThan(decimal.Zero) {
				rules = append(rules, HighlightNegativeBalance)
				break
			}
		}

		if len(rules) > 0 {
			out[row] = rules
		}
	}
	return out
}

// UsageExceeded flags a comparative row whose consumption reached 100%.
func UsageExceeded(row ComparativeRow) bool {
	return row.UsageDefined && row.UsagePct.GreaterThanOrEqual(decimal.NewFromInt(100))
}
