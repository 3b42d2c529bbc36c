package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Formatting conventions used by every exporter. Currency renders with
// thousands separators, no decimals and the lira suffix; percentage precision
// is fixed per metric: variance and usage at 2 decimals, ratios at 1.

// FormatCurrency renders a money value, e.g. 1234567.89 -> "1,234,568 ₺".
func FormatCurrency(v decimal.Decimal) string {
	return groupThousands(v.Round(0).String()) + " ₺"
}

// FormatPercent renders a percentage with a fixed number of decimals.
func FormatPercent(v decimal.Decimal, places int32) string {
	return v.StringFixed(places) + " %"
}

// FormatVariancePct is the pinned 2-decimal variance rendering.
func FormatVariancePct(v decimal.Decimal) string {
	return FormatPercent(v, 2)
}

// FormatUsagePct is the pinned 2-decimal usage rendering. Undefined usage
// (zero-budget group) renders as an explicit marker, never Inf or NaN.
func FormatUsagePct(v decimal.Decimal, defined bool) string {
	if !defined {
		return "—"
	}
	return FormatPercent(v, 2)
}

// FormatRatio is the pinned 1-decimal rendering for BE and reserve ratios.
func FormatRatio(v decimal.Decimal) string {
	return FormatPercent(v, 1)
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
