package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	"fintrack/internal/export/sheets"
	applog "fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := backend.Open(cfg.BackendConfig(), logger.WithComponent(applog.ComponentBackend).Logger)
	if err != nil {
		logger.Error("failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	consumer, err := events.NewConsumer(cfg.EventsConfig())
	if err != nil {
		logger.Error("failed to initialize event consumer", "error", err, "backend", cfg.EventsBackend)
		os.Exit(1)
	}
	if consumer != nil {
		defer consumer.Close()
	}

	// The spreadsheet sink is optional; alerts still land in the logs
	// without it.
	var sink worker.AlertSink
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("failed to initialize sheets export", "error", err)
			os.Exit(1)
		}
		sink = sheetsClient
		logger.Info("budget alerts will be exported to google sheets")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("starting fintrack worker",
		"backend", cfg.DataBackend,
		"events", cfg.EventsBackend,
		"audit_interval", cfg.AuditInterval.String())

	w := worker.New(store, consumer, sink, cfg.AuditInterval)
	if err := w.Run(ctx); err != nil {
		logger.Error("worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully")
}
