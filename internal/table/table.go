// Package table holds the in-memory representation of an uploaded report.
//
// A Table is immutable after load: filter and aggregation operations return
// new tables or result structs and never touch the source rows. Column roles
// (dimension, monthly metric, cumulative metric, general) are resolved once at
// load time instead of being re-derived from header strings on every call.
package table

import (
	"BudgetLens/internal/schema"

	"github.com/shopspring/decimal"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell is a single table value: a decimal number, a text value, or empty.
type Cell struct {
	Kind CellKind
	Num  decimal.Decimal
	Text string
}

func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Num: d}
}

func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// String renders the cell for display and grouping keys.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return c.Num.String()
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Roles partitions the table's columns by their resolved role, in column order.
type Roles struct {
	Dimensions []string
	Monthly    []string
	Cumulative []string
	General    []string
}

// Table is an ordered grid of rows keyed by column name.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
	numeric map[string]bool
	roles   Roles
}

// New creates an empty table with the given (already trimmed) header columns.
func New(columns []string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		numeric: make(map[string]bool, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			continue // first occurrence wins, duplicates are unreachable
		}
		t.index[c] = i
		kind, _, _ := schema.Classify(c)
		switch kind {
		case schema.KindDimension:
			t.roles.Dimensions = append(t.roles.Dimensions, c)
		case schema.KindMonthly:
			t.roles.Monthly = append(t.roles.Monthly, c)
		case schema.KindCumulative:
			t.roles.Cumulative = append(t.roles.Cumulative, c)
		default:
			t.roles.General = append(t.roles.General, c)
		}
	}
	return t
}

// AppendRow adds a row, padding or truncating to the column count.
func (t *Table) AppendRow(cells []Cell) {
	row := make([]Cell, len(t.columns))
	copy(row, cells)
	for i, c := range row {
		if c.Kind == CellNumber {
			t.numeric[t.columns[i]] = true
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) NumRows() int {
	return len(t.rows)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Roles returns the column role partition resolved at load time.
func (t *Table) Roles() Roles {
	return t.roles
}

// Cell looks up a value by row and column name. The second return is false
// when the column does not exist; absent columns are never an error.
func (t *Table) Cell(row int, col string) (Cell, bool) {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return Cell{}, false
	}
	return t.rows[row][i], true
}

// Number returns the numeric value of a cell. Empty cells in a column report
// as zero so that missing values sum as zero; text cells and missing columns
// report false.
func (t *Table) Number(row int, col string) (decimal.Decimal, bool) {
	c, ok := t.Cell(row, col)
	if !ok {
		return decimal.Zero, false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num, true
	case CellEmpty:
		return decimal.Zero, true
	default:
		return decimal.Zero, false
	}
}

// Text returns the display string of a cell, empty for missing columns.
func (t *Table) Text(row int, col string) string {
	c, ok := t.Cell(row, col)
	if !ok {
		return ""
	}
	return c.String()
}

// IsNumeric reports whether the column carried at least one numeric value.
func (t *Table) IsNumeric(col string) bool {
	return t.numeric[col]
}

// NumericColumns returns the numeric columns in table order.
func (t *Table) NumericColumns() []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if t.numeric[c] {
			out = append(out, c)
		}
	}
	return out
}

// Select returns a new table containing the rows for which keep returns true.
// Row slices are shared with the receiver; neither table may be mutated.
func (t *Table) Select(keep func(row int) bool) *Table {
	out := &Table{
		columns: t.columns,
		index:   t.index,
		numeric: t.numeric,
		roles:   t.roles,
	}
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// DistinctValues returns the distinct non-empty values of a column in
// first-seen order. Empty cells are skipped: a null can never be a group key.
func (t *Table) DistinctValues(col string) []string {
	if !t.HasColumn(col) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < len(t.rows); i++ {
		c, _ := t.Cell(i, col)
		if c.Kind == CellEmpty {
			continue
		}
		v := c.String()
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// SumColumn adds every numeric cell of a column, empty cells counting as zero.
// Missing columns sum to zero.
func (t *Table) SumColumn(col string) decimal.Decimal {
	sum := decimal.Zero
	for i := 0; i < len(t.rows); i++ {
		if v, ok := t.Number(i, col); ok {
			sum = sum.Add(v)
		}
	}
	return sum
}
