package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/ingest"
	"github.com/contestlab/essay-intake/internal/ledger"
	"github.com/contestlab/essay-intake/internal/pipeline"
	"github.com/contestlab/essay-intake/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	for _, dir := range []string{cfg.Storage.ArtifactBaseDir, cfg.Storage.LedgerDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("create storage dir", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	ingestor := ingest.NewFSIngestor(cfg.Storage.ArtifactBaseDir, logger)
	runner := pipeline.NewRunner(logger)
	csvLedger := ledger.NewCSVLedger(cfg.Storage.LedgerDir, logger)
	svc := server.NewService(ingestor, runner, csvLedger, cfg.OCR.Provider, cfg.Server.MaxUploadBytes, logger)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: svc.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr, "provider", cfg.OCR.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
