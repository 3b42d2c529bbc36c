package schema

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		kind  ColumnKind
		month string
		base  string
	}{
		{"Masraf Yeri Adı", KindDimension, "", ""},
		{"İlgili 2", KindDimension, "", ""},
		{"Ocak Bütçe", KindMonthly, "Ocak", "Bütçe"},
		{"Aralık BE-Fiili Fark Bakiye", KindMonthly, "Aralık", "BE-Fiili Fark Bakiye"},
		{"Kümüle Fiili", KindCumulative, "", "Fiili"},
		{"Kümüle BE Bakiye", KindCumulative, "", "BE Bakiye"},
		{"Açıklama", KindGeneral, "", ""},
		{"Ocakbaşı", KindGeneral, "", ""},
	}
	for _, tt := range tests {
		kind, month, base := Classify(tt.name)
		if kind != tt.kind || month != tt.month || base != tt.base {
			t.Errorf("Classify(%q) = (%v, %q, %q), want (%v, %q, %q)",
				tt.name, kind, month, base, tt.kind, tt.month, tt.base)
		}
	}
}

func TestExpandMonthsKeepsCalendarOrder(t *testing.T) {
	got := ExpandMonths([]string{"Mart", "Ocak", "Aralık"})
	want := []string{"Ocak", "Mart", "Aralık"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandMonths = %v, want %v", got, want)
	}
}

func TestExpandMonthsAll(t *testing.T) {
	for _, sel := range [][]string{nil, {}, {AllToken}, {"Ocak", AllToken}} {
		got := ExpandMonths(sel)
		if !reflect.DeepEqual(got, Months) {
			t.Errorf("ExpandMonths(%v) = %v, want full calendar", sel, got)
		}
	}
}

func TestExpandBasesUnknownDropped(t *testing.T) {
	got := ExpandBases([]string{"Fiili", "Uydurma", "Bütçe"}, MetricBases)
	want := []string{"Bütçe", "Fiili"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandBases = %v, want %v", got, want)
	}
}

func TestReportBasesCoverBothCatalogs(t *testing.T) {
	got := ExpandBases([]string{AllToken}, ReportBases)
	have := make(map[string]bool, len(got))
	for _, b := range got {
		have[b] = true
	}
	for _, b := range append(append([]string{}, MetricBases...), CumulativeBases...) {
		if !have[b] {
			t.Errorf("union catalog lacks %q", b)
		}
	}
}

func TestCumulativeOnly(t *testing.T) {
	if !CumulativeOnly("BE Bakiye") || !CumulativeOnly("BE-Fiili Fark Bakiye") {
		t.Fatal("balance bases must be cumulative-only")
	}
	if CumulativeOnly("Bütçe") || CumulativeOnly("Fiili") {
		t.Fatal("regular bases must not be cumulative-only")
	}
}

func TestColumnNames(t *testing.T) {
	if got := MonthlyColumn("Ocak", "Bütçe"); got != "Ocak Bütçe" {
		t.Errorf("MonthlyColumn = %q", got)
	}
	if got := CumulativeColumn("Fiili"); got != "Kümüle Fiili" {
		t.Errorf("CumulativeColumn = %q", got)
	}
	if got := TotalColumn("BE"); got != "Toplam BE" {
		t.Errorf("TotalColumn = %q", got)
	}
}
