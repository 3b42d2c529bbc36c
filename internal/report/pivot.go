package report

import (
	"strings"

	"BudgetLens/internal/schema"
	"BudgetLens/internal/table"

	"github.com/shopspring/decimal"
)

// AggFunc selects the pivot aggregation.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggMax   AggFunc = "max"
	AggMin   AggFunc = "min"
	AggCount AggFunc = "count"
)

// ParseAggFunc validates a user-supplied aggregation name.
func ParseAggFunc(s string) (AggFunc, bool) {
	switch AggFunc(strings.ToLower(strings.TrimSpace(s))) {
	case AggSum:
		return AggSum, true
	case AggMean:
		return AggMean, true
	case AggMax:
		return AggMax, true
	case AggMin:
		return AggMin, true
	case AggCount:
		return AggCount, true
	}
	return "", false
}

// PivotResult is a two-axis cross-tab. RowKeys preserve the first-seen order
// of the row dimension values; Columns are in calendar order whenever the
// column axis is month-derived. Cells is row-major with missing combinations
// filled with 0 ("no spend", not "unknown").
type PivotResult struct {
	Status  Status
	Message string
	RowDims []string
	RowKeys []string
	Columns []string
	Cells   [][]decimal.Decimal
}

const rowKeySep = " / "

// BuildPivot cross-tabulates the table. With colDims empty the value columns
// themselves form the column axis; otherwise the distinct column-dimension
// values do, with every value column pooled into each cell's aggregation.
// Degenerate selections return StatusSelectionIncomplete instead of guessing
// a default pivot.
func BuildPivot(t *table.Table, rowDims, colDims, valueCols []string, agg AggFunc) *PivotResult {
	var rows []string
	for _, d := range rowDims {
		if t.HasColumn(d) {
			rows = append(rows, d)
		}
	}
	var vals []string
	for _, v := range valueCols {
		if t.HasColumn(v) && t.IsNumeric(v) {
			vals = append(vals, v)
		}
	}
	if len(rows) == 0 {
		return &PivotResult{Status: StatusSelectionIncomplete, Message: "no row dimension selected"}
	}
	if len(vals) == 0 {
		return &PivotResult{Status: StatusSelectionIncomplete, Message: "no value columns selected"}
	}
	var cols []string
	for _, d := range colDims {
		if t.HasColumn(d) {
			cols = append(cols, d)
		}
	}

	rowKeyOf := func(row int) string {
		parts := make([]string, len(rows))
		for i, d := range rows {
			parts[i] = t.Text(row, d)
		}
		return strings.Join(parts, rowKeySep)
	}

	// Row axis: first-seen order, empty composite keys dropped.
	var rowKeys []string
	rowIdx := make(map[string]int)
	for row := 0; row < t.NumRows(); row++ {
		key := rowKeyOf(row)
		if strings.Trim(key, rowKeySep+" ") == "" {
			continue
		}
		if _, ok := rowIdx[key]; !ok {
			rowIdx[key] = len(rowKeys)
			rowKeys = append(rowKeys, key)
		}
	}

	res := &PivotResult{Status: StatusOK, RowDims: rows, RowKeys: rowKeys}
	if len(rowKeys) == 0 {
		res.Status = StatusEmpty
		return res
	}

	var columns []string
	colIdx := make(map[string]int)
	cells := make(map[int]map[int]*accumulator)
	add := func(r, c int, v decimal.Decimal) {
		byCol, ok := cells[r]
		if !ok {
			byCol = make(map[int]*accumulator)
			cells[r] = byCol
		}
		acc, ok := byCol[c]
		if !ok {
			acc = &accumulator{}
			byCol[c] = acc
		}
		acc.observe(v)
	}

	if len(cols) == 0 {
		// Value columns become the column axis.
		columns = append(columns, vals...)
		for i, c := range columns {
			colIdx[c] = i
		}
		for row := 0; row < t.NumRows(); row++ {
			r, ok := rowIdx[rowKeyOf(row)]
			if !ok {
				continue
			}
			for _, v := range vals {
				if num, ok := t.Number(row, v); ok {
					add(r, colIdx[v], num)
				}
			}
		}
	} else {
		colKeyOf := func(row int) string {
			parts := make([]string, len(cols))
			for i, d := range cols {
				parts[i] = t.Text(row, d)
			}
			return strings.Join(parts, rowKeySep)
		}
		for row := 0; row < t.NumRows(); row++ {
			r, ok := rowIdx[rowKeyOf(row)]
			if !ok {
				continue
			}
			key := colKeyOf(row)
			if strings.Trim(key, rowKeySep+" ") == "" {
				continue
			}
			c, ok := colIdx[key]
			if !ok {
				c = len(columns)
				colIdx[key] = c
				columns = append(columns, key)
			}
			for _, v := range vals {
				if num, ok := t.Number(row, v); ok {
					add(r, c, num)
				}
			}
		}
	}

	order := monthOrder(columns)
	res.Columns = make([]string, len(columns))
	res.Cells = make([][]decimal.Decimal, len(rowKeys))
	for i := range res.Cells {
		res.Cells[i] = make([]decimal.Decimal, len(columns))
	}
	for pos, src := range order {
		res.Columns[pos] = columns[src]
		for r := range rowKeys {
			if acc, ok := cells[r][src]; ok {
				res.Cells[r][pos] = acc.result(agg)
			}
		}
	}
	return res
}

// RowTotals sums every data column per row, the companion single-column view
// shown next to the pivot.
func (p *PivotResult) RowTotals() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.RowKeys))
	for i, key := range p.RowKeys {
		sum := decimal.Zero
		for _, v := range p.Cells[i] {
			sum = sum.Add(v)
		}
		out[key] = sum
	}
	return out
}

// monthOrder maps output positions to source column positions. When every
// column is month-derived the positions follow the calendar; otherwise the
// first-seen order is kept as-is.
func monthOrder(columns []string) []int {
	order := make([]int, len(columns))
	for i := range order {
		order[i] = i
	}
	type monthCol struct {
		src   int
		month int
	}
	ranked := make([]monthCol, 0, len(columns))
	for i, c := range columns {
		first, _, _ := strings.Cut(c, " ")
		idx, ok := schema.MonthIndex(first)
		if !ok {
			return order
		}
		ranked = append(ranked, monthCol{src: i, month: idx})
	}
	// Stable insertion by calendar position keeps same-month metric columns
	// in their original relative order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j-1].month > ranked[j].month; j-- {
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
		}
	}
	for pos, mc := range ranked {
		order[pos] = mc.src
	}
	return order
}

// accumulator folds cell observations for one (row, column) combination.
type accumulator struct {
	count int64
	sum   decimal.Decimal
	max   decimal.Decimal
	min   decimal.Decimal
}

func (a *accumulator) observe(v decimal.Decimal) {
	if a.count == 0 {
		a.max = v
		a.min = v
	} else {
		if v.GreaterThan(a.max) {
			a.max = v
		}
		if v.LessThan(a.min) {
			a.min = v
		}
	}
	a.sum = a.sum.Add(v)
	a.count++
}

func (a *accumulator) result(agg AggFunc) decimal.Decimal {
	if a.count == 0 {
		return decimal.Zero
	}
	switch agg {
	case AggMean:
		return a.sum.Div(decimal.NewFromInt(a.count))
	case AggMax:
		return a.max
	case AggMin:
		return a.min
	case AggCount:
		return decimal.NewFromInt(a.count)
	default:
		return a.sum
	}
}
