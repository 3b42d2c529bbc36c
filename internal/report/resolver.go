// Package report implements the analysis core of the dashboard: column
// resolution, filtering, grouped aggregation, pivoting and the derived
// financial metrics. Every function is a pure operation over an immutable
// table snapshot; callers own all state.
package report

import (
	"BudgetLens/internal/schema"
	"BudgetLens/internal/table"
)

// ResolveColumns builds the list of table columns selected by a month/base
// choice. In monthly mode the output is month-major, base-minor in the order
// given, which fixes the column order of every downstream table and chart. In
// cumulative mode one "Kümüle {base}" column per base is resolved. Names
// absent from the table are skipped silently; an empty result means "no data
// for this selection", never an error.
func ResolveColumns(t *table.Table, months, bases []string, cumulative bool) []string {
	var out []string
	if cumulative {
		for _, base := range bases {
			col := schema.CumulativeColumn(base)
			if t.HasColumn(col) {
				out = append(out, col)
			}
		}
		return out
	}
	for _, month := range months {
		for _, base := range bases {
			col := schema.MonthlyColumn(month, base)
			if t.HasColumn(col) {
				out = append(out, col)
			}
		}
	}
	return out
}

// resolveBase returns the monthly columns for a single base over a month
// range, plus whether the cumulative column must be used instead. Bases that
// exist only in cumulative form (BE Bakiye, BE-Fiili Fark Bakiye) fall back
// to their single "Kümüle" column when no monthly column resolves.
func resolveBase(t *table.Table, months []string, base string) (cols []string, cumulativeFallback string) {
	for _, month := range months {
		col := schema.MonthlyColumn(month, base)
		if t.HasColumn(col) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 && schema.CumulativeOnly(base) {
		cum := schema.CumulativeColumn(base)
		if t.HasColumn(cum) {
			return nil, cum
		}
	}
	return cols, ""
}
