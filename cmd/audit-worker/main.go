// The audit worker tails ledger transition events from the AMQP queue and
// writes them to the structured log for compliance review. It is the
// in-repo stand-in for the platform's external audit sink.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/robertrullyp/DRSIS-sub000/internal/audit"
	"github.com/robertrullyp/DRSIS-sub000/internal/config"
	applog "github.com/robertrullyp/DRSIS-sub000/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)

	logger.Info("Starting audit-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	client, err := audit.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = client.ConsumeTransitions(ctx, func(ev *audit.TransitionEvent) error {
		logger.Info("Ledger transition",
			applog.FieldActorID, ev.ActorID,
			"entity", ev.Entity,
			"entity_id", ev.EntityID,
			"before", ev.BeforeStatus,
			"after", ev.AfterStatus,
			"delta", ev.Delta,
			"reason", ev.Reason,
			"occurred_at", ev.OccurredAt)
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Error("Audit consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Audit worker stopped gracefully")
}
