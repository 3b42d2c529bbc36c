package report

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"BudgetLens/api"
	"BudgetLens/api/constants"
	"BudgetLens/internal/audit"
	"BudgetLens/internal/report"
	"BudgetLens/internal/schema"
	"BudgetLens/internal/session"
	"BudgetLens/internal/table"

	"github.com/gorilla/mux"
)

// viewRequest is the shared body for every report view: which months and
// dimension selections to apply before computing.
type viewRequest struct {
	Months     []string          `json:"months"`
	Selections report.Selections `json:"selections"`
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// resolveSession loads the session from the path var, writing the error
// response itself when the lookup fails.
func resolveSession(w http.ResponseWriter, r *http.Request, sessions *session.Manager) (*session.Session, bool) {
	id := mux.Vars(r)["session_id"]
	if id == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingSessionID)
		return nil, false
	}
	s, err := sessions.Get(id)
	if err != nil {
		api.RespondWithError(w, http.StatusNotFound, constants.ErrInvalidSession)
		return nil, false
	}
	return s, true
}

// filteredTable applies the request's selections over the session's table.
func filteredTable(s *session.Session, req viewRequest) *table.Table {
	return report.ApplyFilters(s.Table, s.Table.Roles().Dimensions, req.Selections)
}

func HealthHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"status":   "ok",
			"sessions": sessions.Count(),
		})
	}
}

// SchemaHandler exposes the column catalogs so clients can build month and
// metric pickers without hardcoding Turkish names.
func SchemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"months":     schema.Months,
			"dimensions": schema.DimensionColumns,
			"bases":      schema.MetricBases,
			"cumulative": schema.CumulativeBases,
			"all_token":  schema.AllToken,
			"agg_funcs":  []report.AggFunc{report.AggSum, report.AggMean, report.AggMax, report.AggMin, report.AggCount},
		})
	}
}

func UploadHandler(sessions *session.Manager, rec *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingFile)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}

		s, err := sessions.Create(data, header.Filename)
		if err != nil {
			var verr *table.ValidationError
			switch {
			case errors.As(err, &verr):
				api.RespondWithPayload(w, false, constants.ErrMissingColumns, map[string]interface{}{
					"missing_columns": verr.Missing,
				})
			case errors.Is(err, table.ErrUnsupportedFileType):
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnsupportedFile)
			default:
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
			}
			return
		}

		rec.RecordUpload(r.Context(), s.ID, s.Filename, s.Fingerprint, s.Table.NumRows())
		api.LogInfo("upload accepted: %s (%d rows) session=%s", s.Filename, s.Table.NumRows(), s.ID)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"session_id": s.ID,
			"filename":   s.Filename,
			"row_count":  s.Table.NumRows(),
			"columns":    s.Table.Columns(),
			"dimensions": s.Table.Roles().Dimensions,
		})
	}
}

func ColumnsHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		roles := s.Table.Roles()
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"columns":    s.Table.Columns(),
			"numeric":    s.Table.NumericColumns(),
			"dimensions": roles.Dimensions,
			"monthly":    roles.Monthly,
			"cumulative": roles.Cumulative,
		})
	}
}

func FilterOptionsHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req viewRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		opts := report.FilterOptions(s.Table, s.Table.Roles().Dimensions, req.Selections)
		api.RespondWithPayload(w, true, "", opts)
	}
}

func PreviewHandler(sessions *session.Manager) http.HandlerFunc {
	type previewRequest struct {
		viewRequest
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req previewRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if req.Limit <= 0 || req.Limit > 500 {
			req.Limit = 100
		}

		t := filteredTable(s, req.viewRequest)
		total := t.NumRows()
		start := req.Offset
		if start < 0 {
			start = 0
		}
		if start > total {
			start = total
		}
		end := start + req.Limit
		if end > total {
			end = total
		}

		cols := t.Columns()
		rows := make([][]string, 0, end-start)
		for i := start; i < end; i++ {
			rec := make([]string, len(cols))
			for j, c := range cols {
				cell, _ := t.Cell(i, c)
				rec[j] = cell.String()
			}
			rows = append(rows, rec)
		}

		highlights := report.EvaluateHighlights(t)
		flagged := make(map[int][]report.HighlightRule, len(highlights))
		for row, rules := range highlights {
			if row >= start && row < end {
				flagged[row] = rules
			}
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"columns":    cols,
			"rows":       rows,
			"offset":     start,
			"total_rows": total,
			"highlights": flagged,
		})
	}
}

func MetricsHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req viewRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}

		t := filteredTable(s, req)
		grand := report.ComputeGrandMetrics(t)
		kpi := report.ComputeKPIMetrics(t, req.Months)

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"cumulative": map[string]string{
				"total_budget": grand.TotalBudget.String(),
				"total_actual": grand.TotalActual.String(),
				"variance":     grand.Variance.String(),
				"variance_pct": report.FormatVariancePct(grand.VariancePct),
			},
			"period": map[string]interface{}{
				"total_budget":  kpi.TotalBudget.String(),
				"total_actual":  kpi.TotalActual.String(),
				"total_be":      kpi.TotalBE.String(),
				"total_reserve": kpi.TotalReserve.String(),
				"variance":      kpi.Variance.String(),
				"variance_pct":  report.FormatVariancePct(kpi.VariancePct),
				"usage_pct":     report.FormatUsagePct(kpi.UsagePct, !kpi.TotalBudget.IsZero()),
				"be_ratio":      report.FormatRatio(kpi.BERatio),
				"reserve_ratio": report.FormatRatio(kpi.ReserveRatio),
				"warning":       kpi.Warning,
			},
		})
	}
}

func GroupTotalsHandler(sessions *session.Manager) http.HandlerFunc {
	type request struct {
		viewRequest
		GroupColumn string   `json:"group_column"`
		Bases       []string `json:"bases"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req request
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		t := filteredTable(s, req.viewRequest)
		res := report.GroupTotals(t, req.GroupColumn, req.Months, req.Bases)
		respondGrouped(w, res)
	}
}

func respondGrouped(w http.ResponseWriter, res *report.GroupedResult) {
	if res.Status == report.StatusSelectionIncomplete {
		api.RespondWithError(w, http.StatusBadRequest, res.Message)
		return
	}
	rows := make([]map[string]interface{}, 0, len(res.Rows))
	for _, row := range res.Rows {
		values := make(map[string]string, len(row.Values))
		for col, v := range row.Values {
			values[col] = v.String()
		}
		rows = append(rows, map[string]interface{}{"key": row.Key, "values": values})
	}
	api.RespondWithPayload(w, true, "", map[string]interface{}{
		"status":       statusLabel(res.Status),
		"group_column": res.GroupColumn,
		"columns":      res.Columns,
		"rows":         rows,
	})
}

func statusLabel(s report.Status) string {
	switch s {
	case report.StatusOK:
		return "ok"
	case report.StatusEmpty:
		return "empty"
	case report.StatusNoNumericColumns:
		return "no_numeric_columns"
	case report.StatusSelectionIncomplete:
		return "selection_incomplete"
	}
	return "unknown"
}

func ColumnTotalsHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req viewRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		t := filteredTable(s, req)
		res := report.ColumnTotals(t)

		values := make(map[string]string, len(res.Values))
		for col, v := range res.Values {
			values[col] = v.String()
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"status":  statusLabel(res.Status),
			"label":   res.Label,
			"columns": res.Columns,
			"values":  values,
		})
	}
}

func CategoryHandler(sessions *session.Manager) http.HandlerFunc {
	type request struct {
		viewRequest
		GroupColumn string `json:"group_column"`
		Base        string `json:"base"`
		TopN        int    `json:"top_n"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req request
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if req.Base == "" {
			req.Base = "Fiili"
		}
		t := filteredTable(s, req.viewRequest)
		res := report.CategoryTotals(t, req.GroupColumn, req.Months, req.Base, req.TopN)
		if res.Status == report.StatusSelectionIncomplete {
			api.RespondWithError(w, http.StatusBadRequest, res.Message)
			return
		}

		rows := make([]map[string]string, 0, len(res.Rows))
		for _, row := range res.Rows {
			rows = append(rows, map[string]string{"key": row.Key, "total": row.Total.String()})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"status":       statusLabel(res.Status),
			"group_column": res.GroupColumn,
			"base":         res.Base,
			"rows":         rows,
		})
	}
}

// DeleteSessionHandler drops an uploaded workbook early, before its TTL.
func DeleteSessionHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["session_id"]
		if id == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingSessionID)
			return
		}
		sessions.Delete(id)
		api.RespondWithResult(w, true, "")
	}
}

func ComparativeHandler(sessions *session.Manager) http.HandlerFunc {
	type request struct {
		viewRequest
		GroupColumn string `json:"group_column"`
		Cumulative  bool   `json:"cumulative"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req request
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		t := filteredTable(s, req.viewRequest)
		res := report.Comparative(t, req.GroupColumn, req.Months, req.Cumulative)
		if res.Status == report.StatusSelectionIncomplete {
			api.RespondWithError(w, http.StatusBadRequest, res.Message)
			return
		}

		rows := make([]map[string]interface{}, 0, len(res.Rows))
		for _, row := range res.Rows {
			rows = append(rows, map[string]interface{}{
				"key":          row.Key,
				"total_budget": row.TotalBudget.String(),
				"total_actual": row.TotalActual.String(),
				"usage_pct":    report.FormatUsagePct(row.UsagePct, row.UsageDefined),
				"exceeded":     report.UsageExceeded(row),
			})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"status":       statusLabel(res.Status),
			"group_column": res.GroupColumn,
			"rows":         rows,
		})
	}
}

func TrendHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req viewRequest
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		t := filteredTable(s, req)
		res := report.MonthlyTrend(t, req.Months)

		points := make([]map[string]string, 0, len(res.Points))
		for _, p := range res.Points {
			points = append(points, map[string]string{
				"month":    p.Month,
				"budget":   p.Budget.String(),
				"actual":   p.Actual.String(),
				"variance": p.Variance.String(),
			})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"status": statusLabel(res.Status),
			"points": points,
		})
	}
}

func PivotHandler(sessions *session.Manager) http.HandlerFunc {
	type request struct {
		viewRequest
		RowDims   []string `json:"row_dims"`
		ColDims   []string `json:"col_dims"`
		ValueCols []string `json:"value_cols"`
		Agg       string   `json:"agg"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		var req request
		if err := decodeBody(r, &req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		agg := report.AggSum
		if req.Agg != "" {
			parsed, ok := report.ParseAggFunc(req.Agg)
			if !ok {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnknownAggFunc)
				return
			}
			agg = parsed
		}

		t := filteredTable(s, req.viewRequest)
		res := report.BuildPivot(t, req.RowDims, req.ColDims, req.ValueCols, agg)
		if res.Status == report.StatusSelectionIncomplete {
			api.RespondWithError(w, http.StatusBadRequest, res.Message)
			return
		}

		cells := make([][]string, len(res.Cells))
		for i, row := range res.Cells {
			cells[i] = make([]string, len(row))
			for j, v := range row {
				cells[i][j] = v.String()
			}
		}
		totals := make(map[string]string, len(res.RowKeys))
		for key, v := range res.RowTotals() {
			totals[key] = v.String()
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"status":     statusLabel(res.Status),
			"row_dims":   res.RowDims,
			"row_keys":   res.RowKeys,
			"columns":    res.Columns,
			"cells":      cells,
			"row_totals": totals,
		})
	}
}
