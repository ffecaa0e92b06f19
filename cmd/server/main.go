package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/achadr/gigseeker/internal/aggregate"
	"github.com/achadr/gigseeker/internal/config"
	"github.com/achadr/gigseeker/internal/metrics"
	"github.com/achadr/gigseeker/internal/provider/registry"
	"github.com/achadr/gigseeker/internal/server"
	"github.com/achadr/gigseeker/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if missing := cfg.MissingKeys(); len(missing) > 0 {
		logger.Warn("some providers are disabled", slog.Any("missing_keys", missing))
	}

	shutdownTracer, err := telemetry.InitTracer("gigseeker", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	collector, err := metrics.New()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	aggregator := aggregate.New(
		registry.EventProviders(cfg, logger),
		registry.LinkProviders(cfg, logger),
		aggregate.WithImageProvider(registry.ImageProvider(cfg, logger)),
		aggregate.WithMetrics(collector),
		aggregate.WithCacheTTL(cfg.Cache.TTL),
		aggregate.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	aggregator.StartCacheSweeper(ctx)

	srv := server.New(cfg, logger, aggregator, collector)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigChan:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
