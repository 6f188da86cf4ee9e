package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/query"
	"fintrack/internal/services"
)

func main() {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := backend.Open(cfg.BackendConfig(), logger.WithComponent(applog.ComponentBackend).Logger)
	if err != nil {
		logger.Error("failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	publisher, err := events.NewPublisher(cfg.EventsConfig())
	if err != nil {
		logger.Error("failed to initialize event publisher", "error", err, "backend", cfg.EventsBackend)
		os.Exit(1)
	}
	if publisher == nil {
		logger.Info("ledger events disabled")
	}

	ledgerSvc := services.NewLedgerService(ledger.New(store), publisher)
	defer ledgerSvc.Close()

	srv := apphttp.NewServer(
		cfg.Port,
		store,
		services.NewEntityService(store),
		ledgerSvc,
		query.New(store),
		auth.NewHeaderAuthenticator(store),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", cfg.EventsBackend)
	if err := srv.Start(); err != nil {
		logger.Error("server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
