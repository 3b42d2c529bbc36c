package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadXLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"  Masraf Yeri Adı ", "Kümüle Bütçe", "Kümüle Fiili", "Ocak Bütçe"},
		{"Merkez", 1000, 900, 500},
		{"Depo", 2000, 2500, 1000},
	})
	tbl, err := Load(data, "rapor.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
	// header trimming
	if !tbl.HasColumn("Masraf Yeri Adı") {
		t.Fatal("padded header not trimmed")
	}
	if v, ok := tbl.Number(1, "Kümüle Fiili"); !ok || !v.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("cell = (%v, %v)", v, ok)
	}
}

func TestLoadMissingMandatoryColumns(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Masraf Yeri Adı", "Ocak Bütçe"},
		{"Merkez", 500},
	})
	_, err := Load(data, "rapor.xlsx")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, want := range []string{"Kümüle Bütçe", "Kümüle Fiili"} {
		found := false
		for _, m := range verr.Missing {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing list %v lacks %q", verr.Missing, want)
		}
	}
}

func TestLoadCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Masraf Yeri Adı,Kümüle Bütçe,Kümüle Fiili",
		"Merkez,1000,900",
		",,",
		"Depo,2000,2500",
	}, "\n")
	tbl, err := Load([]byte(csvData), "rapor.csv")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (blank row skipped)", tbl.NumRows())
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load([]byte("x"), "rapor.pdf"); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}
}

func TestParseCellVariants(t *testing.T) {
	tests := []struct {
		raw  string
		kind CellKind
	}{
		{"", CellEmpty},
		{"  ", CellEmpty},
		{"-", CellEmpty},
		{"1234.5", CellNumber},
		{"1,234,567", CellNumber},
		{"-42", CellNumber},
		{"Merkez", CellText},
		{"12,34,56", CellText},
	}
	for _, tt := range tests {
		if got := parseCell(tt.raw); got.Kind != tt.kind {
			t.Errorf("parseCell(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.kind)
		}
	}
}

func TestParseCellLocaleSeparators(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		// Turkish format: dot grouping, comma decimal mark.
		{"1.234,56", "1234.56"},
		{"-1.234,56", "-1234.56"},
		{"1,5", "1.5"},
		{"1.234.567", "1234567"},
		// Anglophone format alongside it.
		{"1,234.56", "1234.56"},
		{"1,234", "1234"},
		{"1.234,56 ₺", "1234.56"},
	}
	for _, tt := range tests {
		got := parseCell(tt.raw)
		if got.Kind != CellNumber {
			t.Errorf("parseCell(%q).Kind = %v, want number", tt.raw, got.Kind)
			continue
		}
		want, err := decimal.NewFromString(tt.want)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Num.Equal(want) {
			t.Errorf("parseCell(%q) = %s, want %s", tt.raw, got.Num, tt.want)
		}
	}
}

func TestLoadTurkishNumbersEndToEnd(t *testing.T) {
	csvData := strings.Join([]string{
		"Masraf Yeri Adı,Kümüle Bütçe,Kümüle Fiili",
		`Merkez,"1.234,56","1,5"`,
	}, "\n")
	tbl, err := Load([]byte(csvData), "rapor.csv")
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.SumColumn("Kümüle Bütçe"); !got.Equal(decimal.NewFromFloat(1234.56)) {
		t.Errorf("Kümüle Bütçe = %s, want 1234.56", got)
	}
	if got := tbl.SumColumn("Kümüle Fiili"); !got.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("Kümüle Fiili = %s, want 1.5", got)
	}
}
