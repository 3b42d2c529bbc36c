package table

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func num(f float64) Cell { return NumberCell(decimal.NewFromFloat(f)) }
func txt(s string) Cell  { return TextCell(s) }

func sampleTable() *Table {
	t := New([]string{"Masraf Yeri Adı", "İlgili 1", "Ocak Bütçe", "Ocak Fiili", "Kümüle Bütçe", "Not"})
	t.AppendRow([]Cell{txt("Merkez"), txt("A"), num(100), num(90), num(1000), txt("x")})
	t.AppendRow([]Cell{txt("Depo"), txt("B"), num(200), num(250), num(2000), EmptyCell()})
	t.AppendRow([]Cell{txt("Merkez"), txt("A"), num(50), EmptyCell(), num(500), txt("y")})
	return t
}

func TestRolesResolvedAtLoad(t *testing.T) {
	tbl := sampleTable()
	roles := tbl.Roles()
	if !reflect.DeepEqual(roles.Dimensions, []string{"Masraf Yeri Adı", "İlgili 1"}) {
		t.Errorf("dimensions = %v", roles.Dimensions)
	}
	if !reflect.DeepEqual(roles.Monthly, []string{"Ocak Bütçe", "Ocak Fiili"}) {
		t.Errorf("monthly = %v", roles.Monthly)
	}
	if !reflect.DeepEqual(roles.Cumulative, []string{"Kümüle Bütçe"}) {
		t.Errorf("cumulative = %v", roles.Cumulative)
	}
	if !reflect.DeepEqual(roles.General, []string{"Not"}) {
		t.Errorf("general = %v", roles.General)
	}
}

func TestCellLookupMissingColumn(t *testing.T) {
	tbl := sampleTable()
	if _, ok := tbl.Cell(0, "Yok Böyle Sütun"); ok {
		t.Fatal("missing column must report not-found, not error or zero")
	}
	if _, ok := tbl.Number(0, "Yok Böyle Sütun"); ok {
		t.Fatal("missing column number lookup must be not-found")
	}
}

func TestNumberEmptyCellIsZero(t *testing.T) {
	tbl := sampleTable()
	v, ok := tbl.Number(2, "Ocak Fiili")
	if !ok || !v.IsZero() {
		t.Fatalf("empty cell = (%v, %v), want (0, true)", v, ok)
	}
}

func TestSelectSharesNothingMutable(t *testing.T) {
	tbl := sampleTable()
	sub := tbl.Select(func(row int) bool { return tbl.Text(row, "İlgili 1") == "A" })
	if sub.NumRows() != 2 {
		t.Fatalf("sub rows = %d, want 2", sub.NumRows())
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("source mutated: rows = %d", tbl.NumRows())
	}
}

func TestDistinctValuesFirstSeen(t *testing.T) {
	tbl := New([]string{"Kategori"})
	for _, v := range []string{"B", "A", "B", "C", "A"} {
		tbl.AppendRow([]Cell{txt(v)})
	}
	tbl.AppendRow([]Cell{EmptyCell()})
	got := tbl.DistinctValues("Kategori")
	want := []string{"B", "A", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctValues = %v, want %v", got, want)
	}
}

func TestSumColumn(t *testing.T) {
	tbl := sampleTable()
	if got := tbl.SumColumn("Ocak Bütçe"); !got.Equal(decimal.NewFromInt(350)) {
		t.Errorf("sum = %s, want 350", got)
	}
	if got := tbl.SumColumn("Yok"); !got.IsZero() {
		t.Errorf("missing column sum = %s, want 0", got)
	}
}

func TestNumericColumnsExcludeText(t *testing.T) {
	tbl := sampleTable()
	got := tbl.NumericColumns()
	want := []string{"Ocak Bütçe", "Ocak Fiili", "Kümüle Bütçe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NumericColumns = %v, want %v", got, want)
	}
}
