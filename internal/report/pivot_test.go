package report

import (
	"testing"

	"BudgetLens/internal/table"

	"github.com/shopspring/decimal"
)

func pivotFixture() *table.Table {
	t := table.New([]string{"Masraf Yeri Adı", "İlgili 1", "Şubat Fiili", "Ocak Fiili"})
	t.AppendRow([]table.Cell{
		table.TextCell("B"), table.TextCell("X"),
		table.NumberCell(dec(20)), table.NumberCell(dec(10)),
	})
	t.AppendRow([]table.Cell{
		table.TextCell("A"), table.TextCell("X"),
		table.NumberCell(dec(40)), table.NumberCell(dec(30)),
	})
	t.AppendRow([]table.Cell{
		table.TextCell("C"), table.TextCell("Y"),
		table.NumberCell(dec(60)), table.NumberCell(dec(50)),
	})
	t.AppendRow([]table.Cell{
		table.TextCell("B"), table.TextCell("Y"),
		table.NumberCell(dec(80)), table.NumberCell(dec(70)),
	})
	return t
}

func TestBuildPivotRowOrderFirstSeen(t *testing.T) {
	res := BuildPivot(pivotFixture(), []string{"Masraf Yeri Adı"}, nil, []string{"Ocak Fiili"}, AggSum)
	if res.Status != StatusOK {
		t.Fatalf("status = %v", res.Status)
	}
	want := []string{"B", "A", "C"}
	if len(res.RowKeys) != len(want) {
		t.Fatalf("row keys = %v, want %v", res.RowKeys, want)
	}
	for i, k := range want {
		if res.RowKeys[i] != k {
			t.Errorf("row %d = %s, want %s", i, res.RowKeys[i], k)
		}
	}
	// B appears twice; sum pools both rows.
	if !res.Cells[0][0].Equal(dec(80)) {
		t.Errorf("B sum = %s, want 80", res.Cells[0][0])
	}
}

func TestBuildPivotMonthColumnsCalendarOrder(t *testing.T) {
	// Şubat is declared before Ocak in the source; the pivot must still
	// present the months in calendar order.
	res := BuildPivot(pivotFixture(), []string{"Masraf Yeri Adı"}, nil,
		[]string{"Şubat Fiili", "Ocak Fiili"}, AggSum)
	if res.Status != StatusOK {
		t.Fatalf("status = %v", res.Status)
	}
	if res.Columns[0] != "Ocak Fiili" || res.Columns[1] != "Şubat Fiili" {
		t.Fatalf("columns = %v, want calendar order", res.Columns)
	}
	// Cell values must follow the reordered columns.
	if !res.Cells[1][0].Equal(dec(30)) || !res.Cells[1][1].Equal(dec(40)) {
		t.Errorf("A cells = %s, %s; want 30, 40", res.Cells[1][0], res.Cells[1][1])
	}
}

func TestBuildPivotCrossTabZeroFill(t *testing.T) {
	res := BuildPivot(pivotFixture(), []string{"Masraf Yeri Adı"}, []string{"İlgili 1"},
		[]string{"Ocak Fiili"}, AggSum)
	if res.Status != StatusOK {
		t.Fatalf("status = %v", res.Status)
	}
	colOf := map[string]int{}
	for i, c := range res.Columns {
		colOf[c] = i
	}
	rowOf := map[string]int{}
	for i, k := range res.RowKeys {
		rowOf[k] = i
	}
	// A never occurs under Y: the cell is 0, not absent.
	if !res.Cells[rowOf["A"]][colOf["Y"]].IsZero() {
		t.Errorf("A/Y = %s, want 0 fill", res.Cells[rowOf["A"]][colOf["Y"]])
	}
	if !res.Cells[rowOf["B"]][colOf["X"]].Equal(dec(10)) {
		t.Errorf("B/X = %s, want 10", res.Cells[rowOf["B"]][colOf["X"]])
	}
	if !res.Cells[rowOf["B"]][colOf["Y"]].Equal(dec(70)) {
		t.Errorf("B/Y = %s, want 70", res.Cells[rowOf["B"]][colOf["Y"]])
	}
}

func TestBuildPivotAggFuncs(t *testing.T) {
	tbl := table.New([]string{"İlgili 1", "Ocak Fiili"})
	for _, v := range []float64{10, 30, 20} {
		tbl.AppendRow([]table.Cell{table.TextCell("X"), table.NumberCell(dec(v))})
	}
	cases := []struct {
		agg  AggFunc
		want decimal.Decimal
	}{
		{AggSum, dec(60)},
		{AggMean, dec(20)},
		{AggMax, dec(30)},
		{AggMin, dec(10)},
		{AggCount, dec(3)},
	}
	for _, c := range cases {
		res := BuildPivot(tbl, []string{"İlgili 1"}, nil, []string{"Ocak Fiili"}, c.agg)
		if res.Status != StatusOK {
			t.Fatalf("%s: status = %v", c.agg, res.Status)
		}
		if !res.Cells[0][0].Equal(c.want) {
			t.Errorf("%s = %s, want %s", c.agg, res.Cells[0][0], c.want)
		}
	}
}

func TestBuildPivotDegenerateSelections(t *testing.T) {
	tbl := pivotFixture()
	if res := BuildPivot(tbl, nil, nil, []string{"Ocak Fiili"}, AggSum); res.Status != StatusSelectionIncomplete {
		t.Errorf("no row dims: status = %v", res.Status)
	}
	if res := BuildPivot(tbl, []string{"Masraf Yeri Adı"}, nil, nil, AggSum); res.Status != StatusSelectionIncomplete {
		t.Errorf("no value cols: status = %v", res.Status)
	}
	// A text column is not a valid value column.
	if res := BuildPivot(tbl, []string{"Masraf Yeri Adı"}, nil, []string{"İlgili 1"}, AggSum); res.Status != StatusSelectionIncomplete {
		t.Errorf("text value col: status = %v", res.Status)
	}
}

func TestBuildPivotEmptyRowKeyDropped(t *testing.T) {
	tbl := table.New([]string{"Masraf Yeri Adı", "Ocak Fiili"})
	tbl.AppendRow([]table.Cell{table.TextCell("A"), table.NumberCell(dec(1))})
	tbl.AppendRow([]table.Cell{table.EmptyCell(), table.NumberCell(dec(2))})
	res := BuildPivot(tbl, []string{"Masraf Yeri Adı"}, nil, []string{"Ocak Fiili"}, AggSum)
	if len(res.RowKeys) != 1 || res.RowKeys[0] != "A" {
		t.Fatalf("row keys = %v, want only A", res.RowKeys)
	}
}

func TestBuildPivotCompositeRowKey(t *testing.T) {
	res := BuildPivot(pivotFixture(), []string{"Masraf Yeri Adı", "İlgili 1"}, nil,
		[]string{"Ocak Fiili"}, AggSum)
	if res.Status != StatusOK {
		t.Fatalf("status = %v", res.Status)
	}
	if res.RowKeys[0] != "B / X" {
		t.Errorf("first key = %q, want %q", res.RowKeys[0], "B / X")
	}
	if len(res.RowKeys) != 4 {
		t.Errorf("row keys = %v, want 4 distinct combinations", res.RowKeys)
	}
}

func TestPivotRowTotals(t *testing.T) {
	res := BuildPivot(pivotFixture(), []string{"Masraf Yeri Adı"}, nil,
		[]string{"Ocak Fiili", "Şubat Fiili"}, AggSum)
	totals := res.RowTotals()
	if !totals["A"].Equal(dec(70)) {
		t.Errorf("A total = %s, want 70", totals["A"])
	}
	if !totals["B"].Equal(dec(180)) {
		t.Errorf("B total = %s, want 180", totals["B"])
	}
}

func TestParseAggFunc(t *testing.T) {
	if got, ok := ParseAggFunc(" Mean "); !ok || got != AggMean {
		t.Errorf("ParseAggFunc(Mean) = %v, %v", got, ok)
	}
	if _, ok := ParseAggFunc("median"); ok {
		t.Error("median must be rejected")
	}
}
