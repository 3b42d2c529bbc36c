package report

import (
	"sort"

	"BudgetLens/internal/table"
)

// Selections maps a dimension column to its allowed values. An empty or
// missing set imposes no restriction on that dimension.
type Selections map[string][]string

func (s Selections) active(dim string) map[string]bool {
	vals := s[dim]
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

// without returns a copy of the selections with one dimension released.
func (s Selections) without(dim string) Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		if k != dim {
			out[k] = v
		}
	}
	return out
}

// ApplyFilters keeps the rows matching every dimension's selection (logical
// AND). Dimensions absent from the table are skipped silently: report schemas
// vary across uploads and must not make filtering fail. The input table is
// never mutated.
func ApplyFilters(t *table.Table, dims []string, sel Selections) *table.Table {
	type predicate struct {
		dim     string
		allowed map[string]bool
	}
	var preds []predicate
	for _, dim := range dims {
		if !t.HasColumn(dim) {
			continue
		}
		if allowed := sel.active(dim); allowed != nil {
			preds = append(preds, predicate{dim, allowed})
		}
	}
	if len(preds) == 0 {
		return t
	}
	return t.Select(func(row int) bool {
		for _, p := range preds {
			if !p.allowed[t.Text(row, p.dim)] {
				return false
			}
		}
		return true
	})
}

// FilterOptions computes the cascading option lists: the candidates offered
// for dimension D come from the table narrowed by every OTHER dimension's
// current selection, so choosing values in D never shrinks D's own options.
// Options are sorted for stable display; dimensions missing from the table
// are omitted.
func FilterOptions(t *table.Table, dims []string, sel Selections) map[string][]string {
	out := make(map[string][]string, len(dims))
	for _, dim := range dims {
		if !t.HasColumn(dim) {
			continue
		}
		narrowed := ApplyFilters(t, dims, sel.without(dim))
		opts := narrowed.DistinctValues(dim)
		sort.Strings(opts)
		out[dim] = opts
	}
	return out
}
