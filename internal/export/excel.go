package export

import (
	"bytes"
	"fmt"
	"time"

	"BudgetLens/internal/report"
	"BudgetLens/internal/schema"
	"BudgetLens/internal/table"

	"github.com/xuri/excelize/v2"
)

// Bundle carries every computed view the exporters render. Nil sections are
// skipped so callers export exactly what the dashboard currently shows.
type Bundle struct {
	Title       string
	GeneratedAt time.Time
	Filtered    *table.Table
	Metrics     *report.KPIMetrics
	Grouped     *report.GroupedResult
	Totals      *report.TotalsRow
	Comparative *report.ComparativeResult
	Category    *report.CategoryResult
	Trend       *report.TrendResult
	Pivot       *report.PivotResult
}

const currencyNumFmt = `#,##0 "₺"`

var (
	colorHeader     = "#1F4E79"
	colorOverBudget = "#F4CCCC"
	colorOverrun    = "#FCE5CD"
	colorNegative   = "#FFF2CC"
)

// ExcelWorkbook renders the bundle into one workbook, one sheet per section,
// with over-budget rows filled on the data sheet and a line chart next to the
// trend table.
func ExcelWorkbook(b *Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	if b.Metrics != nil {
		if err := writeSummarySheet(f, styles, b); err != nil {
			return nil, err
		}
	}
	if b.Filtered != nil {
		if err := writeDataSheet(f, styles, b.Filtered); err != nil {
			return nil, err
		}
	}
	if b.Grouped != nil && b.Grouped.Status == report.StatusOK {
		if err := writeGroupedSheet(f, styles, b.Grouped); err != nil {
			return nil, err
		}
	}
	if b.Totals != nil && b.Totals.Status == report.StatusOK {
		if err := writeTotalsSheet(f, styles, b.Totals); err != nil {
			return nil, err
		}
	}
	if b.Comparative != nil && b.Comparative.Status == report.StatusOK {
		if err := writeComparativeSheet(f, styles, b.Comparative); err != nil {
			return nil, err
		}
	}
	if b.Category != nil && b.Category.Status == report.StatusOK {
		if err := writeCategorySheet(f, styles, b.Category); err != nil {
			return nil, err
		}
	}
	if b.Trend != nil && b.Trend.Status == report.StatusOK {
		if err := writeTrendSheet(f, styles, b.Trend); err != nil {
			return nil, err
		}
	}
	if b.Pivot != nil && b.Pivot.Status == report.StatusOK {
		if err := writePivotSheet(f, styles, b.Pivot); err != nil {
			return nil, err
		}
	}

	// The default Sheet1 only survives if nothing else was written.
	if sheets := f.GetSheetList(); len(sheets) > 1 {
		f.DeleteSheet("Sheet1")
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title      int
	header     int
	currency   int
	overBudget int
	overrun    int
	negative   int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	numFmt := currencyNumFmt
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	currency, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, err
	}
	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			CustomNumFmt: &numFmt,
			Fill:         excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment:    &excelize.Alignment{Horizontal: "right"},
		})
	}
	overBudget, err := fill(colorOverBudget)
	if err != nil {
		return nil, err
	}
	overrun, err := fill(colorOverrun)
	if err != nil {
		return nil, err
	}
	negative, err := fill(colorNegative)
	if err != nil {
		return nil, err
	}
	return &sheetStyles{
		title:      title,
		header:     header,
		currency:   currency,
		overBudget: overBudget,
		overrun:    overrun,
		negative:   negative,
	}, nil
}

func writeSummarySheet(f *excelize.File, st *sheetStyles, b *Bundle) error {
	const sheet = "Özet"
	f.SetSheetName("Sheet1", sheet)

	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	title := b.Title
	if title == "" {
		title = "Bütçe Raporu"
	}
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "B1", st.title)
	f.SetRowHeight(sheet, 1, 28)
	f.SetCellValue(sheet, "A2", "Oluşturma")
	f.SetCellValue(sheet, "B2", b.GeneratedAt.Format("02.01.2006 15:04"))

	m := b.Metrics
	rows := []struct {
		label string
		value string
	}{
		{"Toplam Bütçe", report.FormatCurrency(m.TotalBudget)},
		{"Toplam Fiili", report.FormatCurrency(m.TotalActual)},
		{"Fark", report.FormatCurrency(m.Variance)},
		{"Fark (%)", report.FormatVariancePct(m.VariancePct)},
		{"Kullanım (%)", report.FormatUsagePct(m.UsagePct, !m.TotalBudget.IsZero())},
		{"BE Oranı", report.FormatRatio(m.BERatio)},
		{"Karşılık Oranı", report.FormatRatio(m.ReserveRatio)},
		{"Durum", string(m.Warning)},
	}
	for i, r := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+4), r.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+4), r.value)
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func writeDataSheet(f *excelize.File, st *sheetStyles, t *table.Table) error {
	const sheet = "Veri"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	cols := t.Columns()
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, c)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", last, st.header)

	highlights := report.EvaluateHighlights(t)
	for row := 0; row < t.NumRows(); row++ {
		rowStyle := rowFillStyle(st, highlights[row])
		for i, c := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return err
			}
			cv, _ := t.Cell(row, c)
			switch cv.Kind {
			case table.CellNumber:
				v, _ := cv.Num.Float64()
				f.SetCellValue(sheet, cell, v)
				style := st.currency
				if rowStyle != 0 && t.IsNumeric(c) {
					style = rowStyle
				}
				f.SetCellStyle(sheet, cell, cell, style)
			case table.CellText:
				f.SetCellValue(sheet, cell, cv.Text)
			}
		}
	}
	return nil
}

// rowFillStyle picks the strongest fired rule's fill. Over budget beats a
// monthly overrun beats a negative balance.
func rowFillStyle(st *sheetStyles, rules []report.HighlightRule) int {
	style := 0
	for _, r := range rules {
		switch r {
		case report.HighlightOverBudget:
			return st.overBudget
		case report.HighlightMonthlyOverrun:
			style = st.overrun
		case report.HighlightNegativeBalance:
			if style == 0 {
				style = st.negative
			}
		}
	}
	return style
}

func writeGroupedSheet(f *excelize.File, st *sheetStyles, g *report.GroupedResult) error {
	const sheet = "Grup Toplamları"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", g.GroupColumn)
	for i, c := range g.Columns {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, c)
	}
	last, err := excelize.CoordinatesToCellName(len(g.Columns)+1, 1)
	if err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", last, st.header)

	for r, row := range g.Rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r+2), row.Key)
		for i, c := range g.Columns {
			cell, err := excelize.CoordinatesToCellName(i+2, r+2)
			if err != nil {
				return err
			}
			v, _ := row.Values[c].Float64()
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, st.currency)
		}
	}
	f.SetColWidth(sheet, "A", "A", 30)
	return nil
}

func writeTotalsSheet(f *excelize.File, st *sheetStyles, tr *report.TotalsRow) error {
	const sheet = "Sütun Toplamları"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Sütun")
	f.SetCellValue(sheet, "B1", tr.Label)
	f.SetCellStyle(sheet, "A1", "B1", st.header)

	for i, c := range tr.Columns {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), c)
		v, _ := tr.Values[c].Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), v)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", r), fmt.Sprintf("B%d", r), st.currency)
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func writeComparativeSheet(f *excelize.File, st *sheetStyles, c *report.ComparativeResult) error {
	const sheet = "Karşılaştırma"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{c.GroupColumn, "Toplam Bütçe", "Toplam Fiili", "Kullanım (%)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "D1", st.header)

	for i, row := range c.Rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Key)
		budget, _ := row.TotalBudget.Float64()
		actual, _ := row.TotalActual.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), budget)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), actual)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), report.FormatUsagePct(row.UsagePct, row.UsageDefined))
		style := st.currency
		if report.UsageExceeded(row) {
			style = st.overBudget
		}
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", r), fmt.Sprintf("C%d", r), style)
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "D", 16)

	if len(c.Rows) > 0 {
		chart := &excelize.Chart{
			Type:  excelize.Bar,
			Title: []excelize.RichTextRun{{Text: "Bütçe / Fiili"}},
			Series: []excelize.ChartSeries{
				{
					Name:       sheet + "!$B$1",
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, len(c.Rows)+1),
					Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, len(c.Rows)+1),
				},
				{
					Name:       sheet + "!$C$1",
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, len(c.Rows)+1),
					Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, len(c.Rows)+1),
				},
			},
		}
		if err := f.AddChart(sheet, "F2", chart); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorySheet(f *excelize.File, st *sheetStyles, c *report.CategoryResult) error {
	const sheet = "Kategori"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", c.GroupColumn)
	f.SetCellValue(sheet, "B1", schema.TotalPrefix+c.Base)
	f.SetCellStyle(sheet, "A1", "B1", st.header)

	for i, row := range c.Rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Key)
		total, _ := row.Total.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), total)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", r), fmt.Sprintf("B%d", r), st.currency)
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 18)

	if len(c.Rows) == 0 {
		return nil
	}
	chart := &excelize.Chart{
		Type:  excelize.Pie,
		Title: []excelize.RichTextRun{{Text: c.Base + " dağılımı"}},
		Series: []excelize.ChartSeries{
			{
				Name:       sheet + "!$B$1",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, len(c.Rows)+1),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, len(c.Rows)+1),
			},
		},
	}
	return f.AddChart(sheet, "D2", chart)
}

func writeTrendSheet(f *excelize.File, st *sheetStyles, tr *report.TrendResult) error {
	const sheet = "Aylık Trend"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Ay", "Bütçe", "Fiili", "Fark"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "D1", st.header)

	for i, p := range tr.Points {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), p.Month)
		budget, _ := p.Budget.Float64()
		actual, _ := p.Actual.Float64()
		variance, _ := p.Variance.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), budget)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), actual)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), variance)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", r), fmt.Sprintf("D%d", r), st.currency)
	}

	chart := &excelize.Chart{
		Type:  excelize.Line,
		Title: []excelize.RichTextRun{{Text: "Aylık Bütçe / Fiili"}},
		Series: []excelize.ChartSeries{
			{
				Name:       sheet + "!$B$1",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, len(tr.Points)+1),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, len(tr.Points)+1),
			},
			{
				Name:       sheet + "!$C$1",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, len(tr.Points)+1),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, len(tr.Points)+1),
			},
		},
	}
	return f.AddChart(sheet, "F2", chart)
}

func writePivotSheet(f *excelize.File, st *sheetStyles, p *report.PivotResult) error {
	const sheet = "Pivot"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	corner := "Grup"
	if len(p.RowDims) > 0 {
		corner = p.RowDims[0]
		for _, d := range p.RowDims[1:] {
			corner += " / " + d
		}
	}
	f.SetCellValue(sheet, "A1", corner)
	for i, c := range p.Columns {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, c)
	}
	last, err := excelize.CoordinatesToCellName(len(p.Columns)+2, 1)
	if err != nil {
		return err
	}
	totalCol, err := excelize.ColumnNumberToName(len(p.Columns) + 2)
	if err != nil {
		return err
	}
	f.SetCellValue(sheet, totalCol+"1", schema.TotalPrefix+"Satır")
	f.SetCellStyle(sheet, "A1", last, st.header)

	totals := p.RowTotals()
	for r, key := range p.RowKeys {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r+2), key)
		for i := range p.Columns {
			cell, err := excelize.CoordinatesToCellName(i+2, r+2)
			if err != nil {
				return err
			}
			v, _ := p.Cells[r][i].Float64()
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, st.currency)
		}
		total, _ := totals[key].Float64()
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", totalCol, r+2), total)
		f.SetCellStyle(sheet, fmt.Sprintf("%s%d", totalCol, r+2), fmt.Sprintf("%s%d", totalCol, r+2), st.currency)
	}
	f.SetColWidth(sheet, "A", "A", 34)
	return nil
}
