package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"BudgetLens/internal/appmanager"
	"BudgetLens/internal/audit"
)

// initAuditPool connects the optional audit database. With no DATABASE_URL
// the service runs fully in-memory.
func initAuditPool(ctx context.Context) *pgxpool.Pool {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Println("[INFO] DATABASE_URL not set, audit trail disabled")
		return nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatal("failed to connect to audit DB:", err)
	}
	if err := audit.NewRecorder(pool).EnsureSchema(ctx); err != nil {
		log.Fatal("failed to prepare audit schema:", err)
	}
	return pool
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	pool := initAuditPool(ctx)
	cancel()
	if pool != nil {
		defer pool.Close()
		appmanager.SetPgxPool(pool)
	}

	manager := appmanager.NewAppManager()

	servicesPath := os.Getenv("SERVICES_CONFIG")
	if servicesPath == "" {
		servicesPath = "../services.yaml"
	}
	servicesCfg, err := appmanager.LoadServiceSequence(servicesPath)
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	manager.AutoRegisterServices(servicesCfg)

	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
