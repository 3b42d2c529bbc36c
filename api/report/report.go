package report

import (
	"fmt"
	"log"
	"net/http"

	"BudgetLens/api/middlewares"
	"BudgetLens/internal/audit"
	"BudgetLens/internal/export"
	"BudgetLens/internal/session"

	"github.com/gorilla/mux"
)

// NewRouter wires every report endpoint onto a gorilla router.
func NewRouter(sessions *session.Manager, rec *audit.Recorder, pdfCfg export.PDFConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middlewares.Recovery, middlewares.RequestLogging)

	r.HandleFunc("/report/health", HealthHandler(sessions)).Methods("GET")
	r.HandleFunc("/report/schema", SchemaHandler()).Methods("GET")
	r.HandleFunc("/report/upload", UploadHandler(sessions, rec)).Methods("POST")

	r.HandleFunc("/report/{session_id}/columns", ColumnsHandler(sessions)).Methods("GET")
	r.HandleFunc("/report/{session_id}/filter-options", FilterOptionsHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/preview", PreviewHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/metrics", MetricsHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/group-totals", GroupTotalsHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/column-totals", ColumnTotalsHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/comparative", ComparativeHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/category", CategoryHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}", DeleteSessionHandler(sessions)).Methods("DELETE")
	r.HandleFunc("/report/{session_id}/trend", TrendHandler(sessions)).Methods("POST")
	r.HandleFunc("/report/{session_id}/pivot", PivotHandler(sessions)).Methods("POST")

	r.HandleFunc("/report/{session_id}/export/xlsx", ExportExcelHandler(sessions, rec)).Methods("POST")
	r.HandleFunc("/report/{session_id}/export/pdf", ExportPDFHandler(sessions, rec, pdfCfg)).Methods("POST")
	r.HandleFunc("/report/{session_id}/export/zip", ExportArchiveHandler(sessions, rec, pdfCfg)).Methods("POST")

	return r
}

func StartReportService(port int, sessions *session.Manager, rec *audit.Recorder, pdfCfg export.PDFConfig) {
	r := NewRouter(sessions, rec, pdfCfg)
	log.Printf("Report Service started on :%d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), r); err != nil {
		log.Fatalf("Report Service failed: %v", err)
	}
}
