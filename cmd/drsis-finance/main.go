package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/robertrullyp/DRSIS-sub000/internal/audit"
	"github.com/robertrullyp/DRSIS-sub000/internal/commands"
	"github.com/robertrullyp/DRSIS-sub000/internal/config"
	applog "github.com/robertrullyp/DRSIS-sub000/internal/log"
	"github.com/robertrullyp/DRSIS-sub000/internal/services"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := applog.Setup(os.Getenv("LOG_LEVEL"), applog.ComponentCLI)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The audit sink is optional: without AMQP the ledger still works,
	// transitions just are not pushed to the compliance queue.
	var auditPublisher services.AuditPublisher
	if cfg.AMQPURL != "" {
		client, err := audit.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize audit publisher", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		auditPublisher = client
	} else {
		logger.Info("Audit publishing disabled - no AMQP_URL provided")
	}

	app := &commands.App{
		Ledger:  services.NewLedgerService(repo, auditPublisher),
		Master:  services.NewMasterDataService(repo),
		Reports: services.NewReportService(repo, nil),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
