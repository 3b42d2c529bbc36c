package api

import (
	"fmt"

	"BudgetLens/internal/config"
	"BudgetLens/internal/serviceiface"
)

type GatewayService struct {
	config map[string]interface{}
}

func NewGatewayService(cfg map[string]interface{}) serviceiface.Service {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	port := config.IntOption(s.config, "port", config.DefaultGatewayPort)
	reportPort := config.IntOption(s.config, "report_port", config.DefaultReportPort)
	go StartGateway(port, fmt.Sprintf("http://localhost:%d", reportPort))
	return nil
}

func (s *GatewayService) Stop() error {
	return nil
}
