package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"BudgetLens/internal/schema"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFileType = errors.New("unsupported file type (expected .xlsx, .xls or .csv)")

// ValidationError reports mandatory report columns missing from an upload.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing mandatory columns: " + strings.Join(e.Missing, ", ")
}

// Load parses an uploaded report file into a Table. Only the first sheet is
// read; header names are trimmed of surrounding whitespace. The upload is
// rejected with a ValidationError when any mandatory column is absent.
func Load(data []byte, filename string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var rows [][]string
	var err error
	switch ext {
	case ".xlsx":
		rows, err = parseXLSX(data)
	case ".xls":
		rows, err = parseXLS(data)
	case ".csv":
		rows, err = parseCSV(data)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var missing []string
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, m := range schema.MandatoryColumns {
		if !have[m] {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	t := New(header)
	for _, raw := range rows[1:] {
		if isEmptyRow(raw) {
			continue
		}
		cells := make([]Cell, len(header))
		for i := range header {
			if i < len(raw) {
				cells[i] = parseCell(raw[i])
			}
		}
		t.AppendRow(cells)
	}
	return t, nil
}

func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	return f.GetRows(sheet)
}

// parseXLS reads a legacy BIFF workbook. The reader wants a file on disk, so
// the upload is spooled to a temp file first.
func parseXLS(data []byte) ([][]string, error) {
	tmp, err := os.CreateTemp("", "report-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var rowData []string
		for _, col := range xlsRow.GetCols() {
			rowData = append(rowData, col.GetString())
		}
		rows = append(rows, rowData)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// parseCell classifies a raw cell: blank is empty, anything that normalizes
// to a plain decimal is numeric, the rest is text.
func parseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return EmptyCell()
	}
	cleaned := strings.TrimSuffix(s, "₺")
	cleaned = strings.TrimSpace(cleaned)
	if plain, ok := normalizeNumber(cleaned); ok {
		if d, err := decimal.NewFromString(plain); err == nil {
			return NumberCell(d)
		}
	}
	return TextCell(s)
}

var commaGrouping = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
var dotGrouping = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// normalizeNumber rewrites a locale-formatted numeric into plain decimal
// notation. SAP exports in this domain write Turkish format ("1.234,56": dot
// grouping, comma decimal mark) while CSVs from other tools write "1,234.56";
// when both separators appear, whichever comes last is the decimal mark. With
// a comma alone, an exact thousands pattern ("1,234,567") is grouping and a
// single comma anywhere else is a decimal mark ("1,5"). With a dot alone, a
// repeated thousands pattern ("1.234.567") is grouping and anything else is a
// plain decimal point. Strings that fit none of these stay text.
func normalizeNumber(s string) (string, bool) {
	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		switch {
		case commaGrouping.MatchString(s):
			s = strings.ReplaceAll(s, ",", "")
		case strings.Count(s, ",") == 1:
			s = strings.Replace(s, ",", ".", 1)
		default:
			return "", false
		}
	case dot >= 0:
		if dotGrouping.MatchString(s) && strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s, true
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
