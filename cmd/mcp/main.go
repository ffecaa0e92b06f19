package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/achadr/gigseeker/internal/aggregate"
	"github.com/achadr/gigseeker/internal/config"
	"github.com/achadr/gigseeker/internal/mcp"
	"github.com/achadr/gigseeker/internal/provider/registry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Stdout carries the protocol; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
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

	aggregator := aggregate.New(
		registry.EventProviders(cfg, logger),
		registry.LinkProviders(cfg, logger),
		aggregate.WithImageProvider(registry.ImageProvider(cfg, logger)),
		aggregate.WithCacheTTL(cfg.Cache.TTL),
		aggregate.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	aggregator.StartCacheSweeper(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	logger.Info("MCP server running on stdio")

	srv := mcp.New(aggregator, logger, os.Stdout)
	if err := srv.Run(ctx, os.Stdin); err != nil && err != context.Canceled {
		logger.Error("mcp server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
