package schema

import "strings"

// Months is the fixed calendar order used for every month-derived axis.
// Never sort these alphabetically.
var Months = []string{
	"Ocak",
	"Şubat",
	"Mart",
	"Nisan",
	"Mayıs",
	"Haziran",
	"Temmuz",
	"Ağustos",
	"Eylül",
	"Ekim",
	"Kasım",
	"Aralık",
}

// DimensionColumns are the categorical columns of the ZFMR0003 report.
// They are grouped/filtered on, never aggregated.
var DimensionColumns = []string{
	"İlgili 1",
	"İlgili 2",
	"İlgili 3",
	"Masraf Yeri",
	"Masraf Yeri Adı",
	"Masraf Çeşidi",
	"Masraf Çeşidi Adı",
	"Masraf Çeşidi Grubu 1",
	"Masraf Çeşidi Grubu 2",
	"Masraf Çeşidi Grubu 3",
}

// MetricBases is the catalog of per-month metric bases, in report order.
var MetricBases = []string{
	"Bütçe",
	"Bütçe ÇKG",
	"Bütçe Karşılık Masrafı",
	"Bütçe Bakiye",
	"Fiili",
	"Fiili ÇKG",
	"Fiili Karşılık Masrafı",
	"Fiili Bakiye",
	"Bütçe-Fiili Fark Bakiye",
	"BE",
	"BE-Fiili Fark Bakiye",
}

// CumulativeBases is the catalog of year-to-date bases. It differs from
// MetricBases in one entry: BE Bakiye exists only in cumulative form, BE only
// in monthly form.
var CumulativeBases = []string{
	"Bütçe",
	"Bütçe ÇKG",
	"Bütçe Karşılık Masrafı",
	"Bütçe Bakiye",
	"Fiili",
	"Fiili ÇKG",
	"Fiili Karşılık Masrafı",
	"Fiili Bakiye",
	"Bütçe-Fiili Fark Bakiye",
	"BE Bakiye",
	"BE-Fiili Fark Bakiye",
}

// ReportBases is the union of the monthly and cumulative catalogs, in report
// order. Base selections are resolved against it so a request may name either
// form of the BE metric.
var ReportBases = []string{
	"Bütçe",
	"Bütçe ÇKG",
	"Bütçe Karşılık Masrafı",
	"Bütçe Bakiye",
	"Fiili",
	"Fiili ÇKG",
	"Fiili Karşılık Masrafı",
	"Fiili Bakiye",
	"Bütçe-Fiili Fark Bakiye",
	"BE",
	"BE Bakiye",
	"BE-Fiili Fark Bakiye",
}

// MandatoryColumns must be present (after header trimming) for an upload to be
// accepted as a valid report.
var MandatoryColumns = []string{ColCostCenterName, ColCumulativeBudget, ColCumulativeActual}

const (
	ColCostCenterName   = "Masraf Yeri Adı"
	ColCumulativeBudget = "Kümüle Bütçe"
	ColCumulativeActual = "Kümüle Fiili"

	// CumulativePrefix prefixes every year-to-date column name.
	CumulativePrefix = "Kümüle "

	// TotalPrefix prefixes the derived per-base total columns.
	TotalPrefix = "Toplam "

	// AllToken is the "select everything" sugar accepted in month/base selections.
	AllToken = "Hepsi"
)

// cumulativeOnly lists the bases that have no monthly columns at all. Per-group
// totals for these fall back to summing the single cumulative column.
var cumulativeOnly = map[string]bool{
	"BE Bakiye":            true,
	"BE-Fiili Fark Bakiye": true,
}

// MonthlyColumn builds the column name for a (month, base) pair.
func MonthlyColumn(month, base string) string {
	return month + " " + base
}

// CumulativeColumn builds the year-to-date column name for a base.
func CumulativeColumn(base string) string {
	return CumulativePrefix + base
}

// TotalColumn builds the derived total column name for a base.
func TotalColumn(base string) string {
	return TotalPrefix + base
}

// CumulativeOnly reports whether the base exists only as a cumulative column.
func CumulativeOnly(base string) bool {
	return cumulativeOnly[base]
}

// ColumnKind classifies a report header.
type ColumnKind int

const (
	KindGeneral ColumnKind = iota // unknown column, passed through untouched
	KindDimension
	KindMonthly
	KindCumulative
)

// Classify resolves a trimmed header name into its role. For KindMonthly the
// returned month and base are the split parts; for KindCumulative base is the
// metric base. Anything that matches no pattern is KindGeneral.
func Classify(name string) (kind ColumnKind, month, base string) {
	for _, d := range DimensionColumns {
		if name == d {
			return KindDimension, "", ""
		}
	}
	if strings.HasPrefix(name, CumulativePrefix) {
		return KindCumulative, "", strings.TrimPrefix(name, CumulativePrefix)
	}
	for _, m := range Months {
		if strings.HasPrefix(name, m+" ") {
			return KindMonthly, m, strings.TrimPrefix(name, m+" ")
		}
	}
	return KindGeneral, "", ""
}

// MonthIndex returns the calendar position of a month name.
func MonthIndex(month string) (int, bool) {
	for i, m := range Months {
		if m == month {
			return i, true
		}
	}
	return 0, false
}

// ExpandMonths resolves a month selection: empty or containing AllToken means
// every month, otherwise the selection filtered to known months, re-ordered
// into calendar order.
func ExpandMonths(selected []string) []string {
	if containsAll(selected) {
		return append([]string(nil), Months...)
	}
	chosen := make(map[string]bool, len(selected))
	for _, m := range selected {
		chosen[m] = true
	}
	out := make([]string, 0, len(selected))
	for _, m := range Months {
		if chosen[m] {
			out = append(out, m)
		}
	}
	return out
}

// ExpandBases resolves a metric base selection against the given catalog,
// preserving catalog order. Empty or AllToken selects the full catalog.
func ExpandBases(selected []string, catalog []string) []string {
	if containsAll(selected) {
		return append([]string(nil), catalog...)
	}
	chosen := make(map[string]bool, len(selected))
	for _, b := range selected {
		chosen[b] = true
	}
	out := make([]string, 0, len(selected))
	for _, b := range catalog {
		if chosen[b] {
			out = append(out, b)
		}
	}
	return out
}

func containsAll(selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == AllToken {
			return true
		}
	}
	return false
}
