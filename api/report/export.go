package report

import (
	"net/http"
	"time"

	"BudgetLens/api"
	"BudgetLens/api/constants"
	"BudgetLens/internal/audit"
	"BudgetLens/internal/export"
	"BudgetLens/internal/report"
	"BudgetLens/internal/schema"
	"BudgetLens/internal/session"
)

// exportRequest selects what goes into the exported report. Everything
// defaults on so a bare POST downloads the full dashboard state.
type exportRequest struct {
	viewRequest
	Title       string   `json:"title"`
	GroupColumn string   `json:"group_column"`
	Bases       []string `json:"bases"`
}

// buildBundle assembles every section the exporters render from one filtered
// view of the session table.
func buildBundle(s *session.Session, req exportRequest) *export.Bundle {
	t := report.ApplyFilters(s.Table, s.Table.Roles().Dimensions, req.Selections)

	groupCol := req.GroupColumn
	if groupCol == "" {
		groupCol = "Masraf Yeri Adı"
	}
	bases := req.Bases
	if len(bases) == 0 {
		bases = []string{"Bütçe", "Fiili"}
	}

	months := schema.ExpandMonths(req.Months)
	metrics := report.ComputeKPIMetrics(t, months)
	valueCols := report.ResolveColumns(t, months, bases, false)
	return &export.Bundle{
		Title:       req.Title,
		GeneratedAt: time.Now(),
		Filtered:    t,
		Metrics:     &metrics,
		Grouped:     report.GroupTotals(t, groupCol, months, bases),
		Totals:      report.ColumnTotals(t),
		Comparative: report.Comparative(t, groupCol, months, false),
		Category:    report.CategoryTotals(t, groupCol, months, "Fiili", 10),
		Trend:       report.MonthlyTrend(t, months),
		Pivot:       report.BuildPivot(t, []string{groupCol}, nil, valueCols, report.AggSum),
	}
}

func ExportExcelHandler(sessions *session.Manager, rec *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req exportRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		data, err := export.ExcelWorkbook(buildBundle(s, req))
		if err != nil {
			api.LogError("excel export: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrExportFailed)
			return
		}
		rec.RecordExport(r.Context(), s.ID, "xlsx", len(data))
		api.RespondWithFile(w, constants.ContentTypeXLSX, "butce-raporu.xlsx", data)
	}
}

func ExportPDFHandler(sessions *session.Manager, rec *audit.Recorder, pdfCfg export.PDFConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req exportRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		data, err := export.PDFReport(pdfCfg, buildBundle(s, req))
		if err != nil {
			api.LogError("pdf export: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrExportFailed)
			return
		}
		rec.RecordExport(r.Context(), s.ID, "pdf", len(data))
		api.RespondWithFile(w, constants.ContentTypePDF, "butce-raporu.pdf", data)
	}
}

func ExportArchiveHandler(sessions *session.Manager, rec *audit.Recorder, pdfCfg export.PDFConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req exportRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		data, filename, err := export.Archive(pdfCfg, buildBundle(s, req))
		if err != nil {
			api.LogError("zip export: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrExportFailed)
			return
		}
		rec.RecordExport(r.Context(), s.ID, "zip", len(data))
		api.RespondWithFile(w, constants.ContentTypeZIP, filename, data)
	}
}
