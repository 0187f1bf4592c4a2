package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/export"
	"github.com/reciptera/reciptera/internal/extraction"
	"github.com/reciptera/reciptera/internal/ingest"
	"github.com/reciptera/reciptera/internal/ocr"
	"github.com/reciptera/reciptera/internal/pipeline"
	"github.com/reciptera/reciptera/internal/repository"
	"github.com/reciptera/reciptera/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout, logger); err != nil {
		logger.Error("db health failed", "error", err)
		os.Exit(1)
	}

	receipts := repository.NewReceiptRepository(pool, logger)
	profiles := repository.NewProfileRepository(pool, logger)
	engine := extraction.NewEngine()
	exporter := export.NewService(receipts, logger)

	health := func(ctx context.Context) error {
		return repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout, logger)
	}
	srv := server.New(engine, receipts, exporter, health, cfg.Currency, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	// Optional drop-folder ingest: watched images flow through the pipeline
	// under a fixed profile.
	if len(cfg.Ingest.WatchDirs) > 0 {
		go runIngest(ctx, cfg, engine, receipts, profiles, logger)
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}

func runIngest(ctx context.Context, cfg *common.Config, engine *extraction.Engine, receipts repository.ReceiptRepository, profiles repository.ProfileRepository, logger *slog.Logger) {
	ingestProfile := os.Getenv("INGEST_PROFILE_ID")
	if ingestProfile == "" {
		logger.Error("INGEST_PROFILE_ID required when INGEST_WATCH_DIRS is set")
		return
	}
	pid, err := uuid.Parse(ingestProfile)
	if err != nil {
		logger.Error("invalid INGEST_PROFILE_ID", "error", err)
		return
	}

	backends := pipeline.Backends{
		Tesseract: ocr.NewTesseractBackend(cfg.OCR, nil, logger),
		Vision:    ocr.NewVisionBackend(cfg.Vision, nil, logger),
	}
	proc := pipeline.NewProcessor(engine, backends, receipts, profiles, logger)

	paths, errs, err := ingest.Watch(ctx, ingest.FromConfig(cfg.Ingest, logger))
	if err != nil {
		logger.Error("start ingest watcher", "error", err)
		return
	}
	logger.Info("ingest watching", "dirs", cfg.Ingest.WatchDirs)

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if ok {
				logger.Error("ingest watcher error", "error", err)
			}
		case path, ok := <-paths:
			if !ok {
				return
			}
			if _, err := proc.ProcessImage(ctx, pid, path); err != nil {
				logger.Error("ingest process failed", "path", path, "error", err)
			}
		}
	}
}
