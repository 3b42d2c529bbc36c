package report

import (
	"sort"

	"BudgetLens/internal/schema"
	"BudgetLens/internal/table"

	"github.com/shopspring/decimal"
)

// Status distinguishes an empty-but-valid result from an invalid request.
// Callers branch on it instead of catching errors out of the core.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusNoNumericColumns
	StatusSelectionIncomplete
)

// GroupRow is one group's totals in a GroupedResult.
type GroupRow struct {
	Key    string
	Values map[string]decimal.Decimal
}

// GroupedResult is the output of GroupTotals and Comparative: one row per
// distinct group value with one value per result column.
type GroupedResult struct {
	Status      Status
	Message     string
	GroupColumn string
	Columns     []string
	Rows        []GroupRow
}

// GroupTotals groups the table by groupCol and sums the resolved monthly
// columns for the requested bases per group. One derived "Toplam {base}"
// column per base sums that base's monthly columns across the month range;
// cumulative-only bases take their "Kümüle" column instead of totalling to
// zero. Rows with an empty group value are dropped. Group order is the
// first-seen order of the source table. Month and base selections expand like
// every other view: empty or "Hepsi" means the full catalog.
func GroupTotals(t *table.Table, groupCol string, months, bases []string) *GroupedResult {
	if !t.HasColumn(groupCol) {
		return &GroupedResult{
			Status:      StatusSelectionIncomplete,
			Message:     "group column not present: " + groupCol,
			GroupColumn: groupCol,
		}
	}

	months = schema.ExpandMonths(months)
	bases = schema.ExpandBases(bases, schema.ReportBases)

	type baseColumns struct {
		base     string
		monthly  []string
		fallback string
	}
	var resolved []baseColumns
	var valueCols []string
	for _, base := range bases {
		cols, fallback := resolveBase(t, months, base)
		if len(cols) == 0 && fallback == "" {
			continue
		}
		resolved = append(resolved, baseColumns{base, cols, fallback})
		valueCols = append(valueCols, cols...)
	}
	if len(resolved) == 0 {
		return &GroupedResult{Status: StatusEmpty, GroupColumn: groupCol}
	}

	columns := append([]string(nil), valueCols...)
	for _, bc := range resolved {
		columns = append(columns, schema.TotalColumn(bc.base))
	}

	groups := t.DistinctValues(groupCol)
	byKey := make(map[string]map[string]decimal.Decimal, len(groups))
	for _, g := range groups {
		vals := make(map[string]decimal.Decimal, len(columns))
		for _, c := range columns {
			vals[c] = decimal.Zero
		}
		byKey[g] = vals
	}

	for row := 0; row < t.NumRows(); row++ {
		key := t.Text(row, groupCol)
		vals, ok := byKey[key]
		if !ok {
			continue
		}
		for _, bc := range resolved {
			total := schema.TotalColumn(bc.base)
			for _, col := range bc.monthly {
				if v, ok := t.Number(row, col); ok {
					vals[col] = vals[col].Add(v)
					vals[total] = vals[total].Add(v)
				}
			}
			if bc.fallback != "" {
				if v, ok := t.Number(row, bc.fallback); ok {
					vals[total] = vals[total].Add(v)
				}
			}
		}
	}

	res := &GroupedResult{Status: StatusOK, GroupColumn: groupCol, Columns: columns}
	for _, g := range groups {
		res.Rows = append(res.Rows, GroupRow{Key: g, Values: byKey[g]})
	}
	if len(res.Rows) == 0 {
		res.Status = StatusEmpty
	}
	return res
}

// CategoryRow is one group's total for a single metric base.
type CategoryRow struct {
	Key   string
	Total decimal.Decimal
}

// CategoryResult ranks groups by their summed metric, largest first.
type CategoryResult struct {
	Status      Status
	Message     string
	GroupColumn string
	Base        string
	Rows        []CategoryRow
}

// CategoryTotals sums one metric base per group over the month range and ranks
// the groups by spend. topN <= 0 keeps every group. Cumulative-only bases fall
// back to their "Kümüle" column like GroupTotals does.
func CategoryTotals(t *table.Table, groupCol string, months []string, base string, topN int) *CategoryResult {
	res := &CategoryResult{GroupColumn: groupCol, Base: base}
	if !t.HasColumn(groupCol) {
		res.Status = StatusSelectionIncomplete
		res.Message = "group column not present: " + groupCol
		return res
	}
	cols, fallback := resolveBase(t, schema.ExpandMonths(months), base)
	if fallback != "" {
		cols = append(cols, fallback)
	}
	if len(cols) == 0 {
		res.Status = StatusEmpty
		return res
	}

	groups := t.DistinctValues(groupCol)
	totals := make(map[string]decimal.Decimal, len(groups))
	for _, g := range groups {
		totals[g] = decimal.Zero
	}
	for row := 0; row < t.NumRows(); row++ {
		key := t.Text(row, groupCol)
		sum, ok := totals[key]
		if !ok {
			continue
		}
		for _, c := range cols {
			if v, ok := t.Number(row, c); ok {
				sum = sum.Add(v)
			}
		}
		totals[key] = sum
	}

	for _, g := range groups {
		res.Rows = append(res.Rows, CategoryRow{Key: g, Total: totals[g]})
	}
	sort.SliceStable(res.Rows, func(i, j int) bool {
		return res.Rows[i].Total.GreaterThan(res.Rows[j].Total)
	})
	if topN > 0 && len(res.Rows) > topN {
		res.Rows = res.Rows[:topN]
	}
	if len(res.Rows) == 0 {
		res.Status = StatusEmpty
	} else {
		res.Status = StatusOK
	}
	return res
}

// TotalsRow is the single summary row produced by ColumnTotals.
type TotalsRow struct {
	Status  Status
	Label   string
	Columns []string
	Values  map[string]decimal.Decimal
}

// ColumnTotals sums every numeric non-dimension column into one row labeled
// "Toplam". A table with no such columns yields StatusNoNumericColumns, which
// is informational, not an error.
func ColumnTotals(t *table.Table) *TotalsRow {
	dims := make(map[string]bool)
	for _, d := range t.Roles().Dimensions {
		dims[d] = true
	}
	var cols []string
	for _, c := range t.NumericColumns() {
		if !dims[c] {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return &TotalsRow{Status: StatusNoNumericColumns, Label: "Toplam"}
	}
	values := make(map[string]decimal.Decimal, len(cols))
	for _, c := range cols {
		values[c] = t.SumColumn(c)
	}
	return &TotalsRow{Status: StatusOK, Label: "Toplam", Columns: cols, Values: values}
}

// GrandMetrics are the headline figures from the cumulative budget and actual
// columns. Variance is budget minus actual: positive means under budget. A
// zero budget defines the percentage as 0 rather than dividing.
type GrandMetrics struct {
	TotalBudget decimal.Decimal
	TotalActual decimal.Decimal
	Variance    decimal.Decimal
	VariancePct decimal.Decimal
}

func ComputeGrandMetrics(t *table.Table) GrandMetrics {
	budget := t.SumColumn(schema.ColCumulativeBudget)
	actual := t.SumColumn(schema.ColCumulativeActual)
	variance := budget.Sub(actual)
	pct := decimal.Zero
	if !budget.IsZero() {
		pct = variance.Div(budget).Mul(decimal.NewFromInt(100))
	}
	return GrandMetrics{
		TotalBudget: budget,
		TotalActual: actual,
		Variance:    variance,
		VariancePct: pct,
	}
}

// ComparativeRow is one group's budget/actual comparison. Usage is undefined
// (UsageDefined false) for zero-budget groups; infinities never leak out.
type ComparativeRow struct {
	Key          string
	TotalBudget  decimal.Decimal
	TotalActual  decimal.Decimal
	UsagePct     decimal.Decimal
	UsageDefined bool
}

// ComparativeResult holds the per-group comparison sorted by actual spend.
type ComparativeResult struct {
	Status      Status
	Message     string
	GroupColumn string
	Rows        []ComparativeRow
}

// Comparative groups by a dimension and compares summed budget against summed
// actual, monthly over the month range or cumulative per the caller's choice.
func Comparative(t *table.Table, groupCol string, months []string, cumulative bool) *ComparativeResult {
	if !t.HasColumn(groupCol) {
		return &ComparativeResult{
			Status:      StatusSelectionIncomplete,
			Message:     "group column not present: " + groupCol,
			GroupColumn: groupCol,
		}
	}

	var budgetCols, actualCols []string
	if cumulative {
		budgetCols = ResolveColumns(t, nil, []string{"Bütçe"}, true)
		actualCols = ResolveColumns(t, nil, []string{"Fiili"}, true)
	} else {
		expanded := schema.ExpandMonths(months)
		budgetCols = ResolveColumns(t, expanded, []string{"Bütçe"}, false)
		actualCols = ResolveColumns(t, expanded, []string{"Fiili"}, false)
	}
	if len(budgetCols) == 0 || len(actualCols) == 0 {
		return &ComparativeResult{
			Status:      StatusSelectionIncomplete,
			Message:     "no budget or actual columns for the selected period",
			GroupColumn: groupCol,
		}
	}

	groups := t.DistinctValues(groupCol)
	type sums struct{ budget, actual decimal.Decimal }
	byKey := make(map[string]*sums, len(groups))
	for _, g := range groups {
		byKey[g] = &sums{decimal.Zero, decimal.Zero}
	}
	for row := 0; row < t.NumRows(); row++ {
		s, ok := byKey[t.Text(row, groupCol)]
		if !ok {
			continue
		}
		for _, c := range budgetCols {
			if v, ok := t.Number(row, c); ok {
				s.budget = s.budget.Add(v)
			}
		}
		for _, c := range actualCols {
			if v, ok := t.Number(row, c); ok {
				s.actual = s.actual.Add(v)
			}
		}
	}

	res := &ComparativeResult{Status: StatusOK, GroupColumn: groupCol}
	for _, g := range groups {
		s := byKey[g]
		row := ComparativeRow{Key: g, TotalBudget: s.budget, TotalActual: s.actual}
		if !s.budget.IsZero() {
			row.UsagePct = s.actual.Div(s.budget).Mul(decimal.NewFromInt(100))
			row.UsageDefined = true
		}
		res.Rows = append(res.Rows, row)
	}
	sort.SliceStable(res.Rows, func(i, j int) bool {
		return res.Rows[i].TotalActual.GreaterThan(res.Rows[j].TotalActual)
	})
	if len(res.Rows) == 0 {
		res.Status = StatusEmpty
	}
	return res
}

// TrendPoint is one month's totals for the trend chart.
type TrendPoint struct {
	Month    string
	Budget   decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
}

// TrendResult lists per-month totals in calendar order. Months missing either
// the budget or the actual column are skipped.
type TrendResult struct {
	Status Status
	Points []TrendPoint
}

func MonthlyTrend(t *table.Table, months []string) *TrendResult {
	res := &TrendResult{Status: StatusOK}
	for _, month := range schema.ExpandMonths(months) {
		bCol := schema.MonthlyColumn(month, "Bütçe")
		aCol := schema.MonthlyColumn(month, "Fiili")
		if !t.HasColumn(bCol) || !t.HasColumn(aCol) {
			continue
		}
		budget := t.SumColumn(bCol)
		actual := t.SumColumn(aCol)
		res.Points = append(res.Points, TrendPoint{
			Month:    month,
			Budget:   budget,
			Actual:   actual,
			Variance: budget.Sub(actual),
		})
	}
	if len(res.Points) == 0 {
		res.Status = StatusEmpty
	}
	return res
}

// WarningLevel grades budget consumption for the KPI panel.
type WarningLevel string

const (
	WarningSafe     WarningLevel = "SAFE"
	WarningNear     WarningLevel = "NEAR_LIMIT"
	WarningExceeded WarningLevel = "EXCEEDED"
)

// KPIMetrics is the KPI panel: totals over the selected months plus the
// consumption ratios. Every ratio defines division by zero as 0.
type KPIMetrics struct {
	TotalBudget  decimal.Decimal
	TotalActual  decimal.Decimal
	TotalBE      decimal.Decimal
	TotalReserve decimal.Decimal
	Variance     decimal.Decimal
	VariancePct  decimal.Decimal
	UsagePct     decimal.Decimal
	BERatio      decimal.Decimal
	ReserveRatio decimal.Decimal
	Warning      WarningLevel
}

func ComputeKPIMetrics(t *table.Table, months []string) KPIMetrics {
	hundred := decimal.NewFromInt(100)
	var budget, actual, be, reserve decimal.Decimal
	for _, month := range schema.ExpandMonths(months) {
		budget = budget.Add(t.SumColumn(schema.MonthlyColumn(month, "Bütçe")))
		actual = actual.Add(t.SumColumn(schema.MonthlyColumn(month, "Fiili")))
		be = be.Add(t.SumColumn(schema.MonthlyColumn(month, "BE")))
		reserve = reserve.Add(t.SumColumn(schema.MonthlyColumn(month, "Fiili Karşılık Masrafı")))
	}

	m := KPIMetrics{
		TotalBudget:  budget,
		TotalActual:  actual,
		TotalBE:      be,
		TotalReserve: reserve,
		Variance:     budget.Sub(actual),
		Warning:      WarningSafe,
	}
	if !budget.IsZero() {
		m.VariancePct = m.Variance.Div(budget).Mul(hundred)
		m.UsagePct = actual.Div(budget).Mul(hundred)
	}
	if !actual.IsZero() {
		m.BERatio = be.Div(actual).Mul(hundred)
		m.ReserveRatio = reserve.Div(actual).Mul(hundred)
	}
	switch {
	case m.UsagePct.GreaterThan(decimal.NewFromInt(110)):
		m.Warning = WarningExceeded
	case m.UsagePct.GreaterThanOrEqual(decimal.NewFromInt(90)):
		m.Warning = WarningNear
	}
	return m
}
