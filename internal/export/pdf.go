package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"BudgetLens/internal/report"

	"github.com/signintech/gopdf"
)

// PDFConfig points the renderer at TTF files. gopdf embeds the font into the
// document, and the Turkish month names need full Latin coverage, so the fonts
// ship outside the binary and are located at startup.
type PDFConfig struct {
	FontDir     string
	RegularFont string
	BoldFont    string
}

func (c PDFConfig) regularPath() string {
	name := c.RegularFont
	if name == "" {
		name = "DejaVuSans.ttf"
	}
	return filepath.Join(c.FontDir, name)
}

func (c PDFConfig) boldPath() string {
	name := c.BoldFont
	if name == "" {
		name = "DejaVuSans-Bold.ttf"
	}
	return filepath.Join(c.FontDir, name)
}

// Validate checks the font files exist before the first render.
func (c PDFConfig) Validate() error {
	for _, p := range []string{c.regularPath(), c.boldPath()} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("pdf font not found: %w", err)
		}
	}
	return nil
}

const (
	pageWidth  = 595.0
	marginX    = 40.0
	lineHeight = 20.0
	pageBottom = 780.0
)

type pdfWriter struct {
	pdf  gopdf.GoPdf
	y    float64
	page int
}

// PDFReport renders the bundle as an A4 summary report: headline metrics, the
// per-group comparison and the monthly trend, with usage bars drawn inline.
func PDFReport(cfg PDFConfig, b *Bundle) ([]byte, error) {
	w := &pdfWriter{}
	w.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := w.pdf.AddTTFFont("regular", cfg.regularPath()); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	if err := w.pdf.AddTTFFont("bold", cfg.boldPath()); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	w.newPage(b)

	if b.Metrics != nil {
		if err := w.summarySection(b.Metrics); err != nil {
			return nil, err
		}
	}
	if b.Comparative != nil && b.Comparative.Status == report.StatusOK {
		if err := w.comparativeSection(b); err != nil {
			return nil, err
		}
	}
	if b.Trend != nil && b.Trend.Status == report.StatusOK {
		if err := w.trendSection(b); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := w.pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) newPage(b *Bundle) {
	w.pdf.AddPage()
	w.page++

	w.pdf.SetFillColor(31, 78, 121)
	w.pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 70, "F")
	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.SetFont("bold", "", 20)
	w.pdf.SetXY(marginX, 20)
	title := b.Title
	if title == "" {
		title = "Bütçe Raporu"
	}
	w.pdf.Cell(nil, title)
	w.pdf.SetFont("regular", "", 10)
	w.pdf.SetXY(marginX, 48)
	w.pdf.Cell(nil, b.GeneratedAt.Format("02.01.2006 15:04"))

	w.pdf.SetXY(pageWidth-marginX-60, 48)
	w.pdf.Cell(nil, fmt.Sprintf("Sayfa %d", w.page))

	w.pdf.SetTextColor(45, 52, 54)
	w.y = 95
}

func (w *pdfWriter) ensureRoom(b *Bundle, needed float64) {
	if w.y+needed > pageBottom {
		w.newPage(b)
	}
}

func (w *pdfWriter) heading(text string) error {
	if err := w.pdf.SetFont("bold", "", 14); err != nil {
		return err
	}
	w.pdf.SetXY(marginX, w.y)
	w.pdf.Cell(nil, text)
	w.y += lineHeight + 8
	return w.pdf.SetFont("regular", "", 11)
}

func (w *pdfWriter) labelValue(label, value string) {
	w.pdf.SetXY(marginX, w.y)
	w.pdf.Cell(nil, label)
	w.pdf.SetXY(marginX+180, w.y)
	w.pdf.Cell(nil, value)
	w.y += lineHeight
}

func (w *pdfWriter) summarySection(m *report.KPIMetrics) error {
	w.pdf.SetFillColor(245, 247, 250)
	w.pdf.RectFromUpperLeftWithStyle(marginX-10, w.y-8, pageWidth-2*(marginX-10), 190, "F")

	if err := w.heading("Özet"); err != nil {
		return err
	}
	w.labelValue("Toplam Bütçe", report.FormatCurrency(m.TotalBudget))
	w.labelValue("Toplam Fiili", report.FormatCurrency(m.TotalActual))

	switch m.Warning {
	case report.WarningExceeded:
		w.pdf.SetTextColor(214, 48, 49)
	case report.WarningNear:
		w.pdf.SetTextColor(230, 145, 20)
	default:
		w.pdf.SetTextColor(0, 140, 100)
	}
	w.labelValue("Fark", report.FormatCurrency(m.Variance))
	w.labelValue("Kullanım (%)", report.FormatUsagePct(m.UsagePct, !m.TotalBudget.IsZero()))
	w.pdf.SetTextColor(45, 52, 54)

	w.labelValue("Fark (%)", report.FormatVariancePct(m.VariancePct))
	w.labelValue("BE Oranı", report.FormatRatio(m.BERatio))
	w.labelValue("Karşılık Oranı", report.FormatRatio(m.ReserveRatio))
	w.y += 18
	return nil
}

func (w *pdfWriter) comparativeSection(b *Bundle) error {
	c := b.Comparative
	w.ensureRoom(b, 60)
	if err := w.heading("Karşılaştırma: " + c.GroupColumn); err != nil {
		return err
	}

	const barMax = 160.0
	for _, row := range c.Rows {
		w.ensureRoom(b, lineHeight+4)
		w.pdf.SetXY(marginX, w.y)
		w.pdf.Cell(nil, row.Key)
		w.pdf.SetXY(marginX+170, w.y)
		w.pdf.Cell(nil, report.FormatCurrency(row.TotalActual))

		// Usage bar capped at 200% so outliers stay on the page.
		if row.UsageDefined {
			ratio, _ := row.UsagePct.Float64()
			width := ratio / 100 * barMax / 2
			if width > barMax {
				width = barMax
			}
			if width < 2 {
				width = 2
			}
			if report.UsageExceeded(row) {
				w.pdf.SetFillColor(214, 48, 49)
			} else {
				w.pdf.SetFillColor(0, 140, 100)
			}
			w.pdf.RectFromUpperLeftWithStyle(marginX+280, w.y+3, width, 10, "F")
			w.pdf.SetXY(marginX+280+barMax+8, w.y)
			w.pdf.Cell(nil, report.FormatUsagePct(row.UsagePct, true))
		} else {
			w.pdf.SetXY(marginX+280, w.y)
			w.pdf.Cell(nil, report.FormatUsagePct(row.UsagePct, false))
		}
		w.y += lineHeight
	}
	w.y += 14
	return nil
}

func (w *pdfWriter) trendSection(b *Bundle) error {
	tr := b.Trend
	w.ensureRoom(b, 60)
	if err := w.heading("Aylık Trend"); err != nil {
		return err
	}

	w.pdf.SetFont("bold", "", 11)
	for i, h := range []string{"Ay", "Bütçe", "Fiili", "Fark"} {
		w.pdf.SetXY(marginX+float64(i)*120, w.y)
		w.pdf.Cell(nil, h)
	}
	w.y += lineHeight
	w.pdf.SetFont("regular", "", 11)

	for _, p := range tr.Points {
		w.ensureRoom(b, lineHeight)
		cells := []string{
			p.Month,
			report.FormatCurrency(p.Budget),
			report.FormatCurrency(p.Actual),
			report.FormatCurrency(p.Variance),
		}
		for i, c := range cells {
			w.pdf.SetXY(marginX+float64(i)*120, w.y)
			w.pdf.Cell(nil, c)
		}
		w.y += lineHeight
	}
	return nil
}
