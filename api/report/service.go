package report

import (
	"log"
	"time"

	"BudgetLens/internal/audit"
	"BudgetLens/internal/config"
	"BudgetLens/internal/export"
	"BudgetLens/internal/serviceiface"
	"BudgetLens/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportService struct {
	config   map[string]interface{}
	sessions *session.Manager
	audit    *audit.Recorder
	pdfCfg   export.PDFConfig
}

func NewReportService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	ttl := time.Duration(config.IntOption(cfg, "session_ttl_minutes", config.DefaultSessionTTLMinutes)) * time.Minute
	pdfCfg := export.PDFConfig{
		FontDir:     config.StringOption(cfg, "font_dir", config.DefaultFontDir),
		RegularFont: config.StringOption(cfg, "font_regular", ""),
		BoldFont:    config.StringOption(cfg, "font_bold", ""),
	}
	if err := pdfCfg.Validate(); err != nil {
		log.Printf("[ERROR] pdf and zip exports unavailable: %v (install the regular and bold TTF files under %s)",
			err, pdfCfg.FontDir)
	}
	return &ReportService{
		config:   cfg,
		sessions: session.NewManager(ttl),
		audit:    audit.NewRecorder(pool),
		pdfCfg:   pdfCfg,
	}
}

func (s *ReportService) Name() string {
	return "report"
}

func (s *ReportService) Start() error {
	port := config.IntOption(s.config, "port", config.DefaultReportPort)
	go StartReportService(port, s.sessions, s.audit, s.pdfCfg)
	return nil
}

func (s *ReportService) Stop() error {
	return nil
}

// Sessions exposes the store so the cleanup job can sweep it.
func (s *ReportService) Sessions() *session.Manager {
	return s.sessions
}
