package jobs

import (
	"fmt"
	"log"

	"BudgetLens/internal/config"
	"BudgetLens/internal/logger"
	"BudgetLens/internal/serviceiface"
	"BudgetLens/internal/session"

	"github.com/robfig/cron/v3"
)

// CronService runs the background maintenance jobs, currently the report
// session sweep. It needs the session manager wired before Start.
type CronService struct {
	config   map[string]interface{}
	sessions *session.Manager
	cron     *cron.Cron
}

func NewCronService(cfg map[string]interface{}) *CronService {
	return &CronService{config: cfg}
}

func (s *CronService) Name() string {
	return "cron"
}

// SetSessions wires the store the sweep job operates on.
func (s *CronService) SetSessions(m *session.Manager) {
	s.sessions = m
}

func (s *CronService) Start() error {
	if s.sessions == nil {
		return fmt.Errorf("cron service: session manager not wired")
	}

	schedule := config.StringOption(s.config, "cleanup_schedule", config.DefaultCleanupSchedule)

	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		removed := s.sessions.CleanupExpired()
		if removed > 0 {
			msg := fmt.Sprintf("session sweep removed %d expired sessions, %d live", removed, s.sessions.Count())
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(msg)
			} else {
				log.Println("[INFO]", msg)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %v", err)
	}

	s.cron.Start()
	log.Println("Cron service started, session sweep scheduled for", schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}

var _ serviceiface.Service = (*CronService)(nil)
