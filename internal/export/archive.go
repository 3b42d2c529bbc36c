package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"BudgetLens/internal/table"
)

// Archive bundles the workbook, the PDF report and a raw CSV of the filtered
// rows into one zip for download.
func Archive(cfg PDFConfig, b *Bundle) ([]byte, string, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	stamp := b.GeneratedAt.Format("20060102-150405")

	xlsx, err := ExcelWorkbook(b)
	if err != nil {
		return nil, "", err
	}
	if err := addEntry(zw, fmt.Sprintf("butce-raporu-%s.xlsx", stamp), xlsx); err != nil {
		return nil, "", err
	}

	pdf, err := PDFReport(cfg, b)
	if err != nil {
		return nil, "", err
	}
	if err := addEntry(zw, fmt.Sprintf("butce-raporu-%s.pdf", stamp), pdf); err != nil {
		return nil, "", err
	}

	if b.Filtered != nil {
		raw, err := TableCSV(b.Filtered)
		if err != nil {
			return nil, "", err
		}
		if err := addEntry(zw, fmt.Sprintf("veri-%s.csv", stamp), raw); err != nil {
			return nil, "", err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("butce-raporu-%s.zip", stamp), nil
}

func addEntry(zw *zip.Writer, name string, data []byte) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	hdr.Modified = time.Now()
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// TableCSV writes the table back out as UTF-8 CSV, numbers in plain decimal
// notation without currency formatting.
func TableCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns()); err != nil {
		return nil, err
	}
	record := make([]string, len(t.Columns()))
	for row := 0; row < t.NumRows(); row++ {
		for i, col := range t.Columns() {
			c, _ := t.Cell(row, col)
			record[i] = c.String()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
