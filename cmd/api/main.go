package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/merchantpulse/shopify-sync-service/internal/auth"
	"github.com/merchantpulse/shopify-sync-service/internal/config"
	"github.com/merchantpulse/shopify-sync-service/internal/httpserver"
	"github.com/merchantpulse/shopify-sync-service/internal/obs"
	"github.com/merchantpulse/shopify-sync-service/internal/shopify"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

// main boots the service: config → DB → schema → clients → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so a fresh deploy self-bootstraps.
	if err := db.EnsureSchema(); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	metrics := obs.New()

	fbClient, err := auth.NewFirebaseClient(context.Background())
	if err != nil {
		logger.Error("failed to initialize firebase auth", "error", err)
		os.Exit(1)
	}
	if fbClient == nil {
		logger.Warn("firebase credentials not configured, dashboard APIs will reject requests")
	}

	shopifyClient := shopify.New(
		cfg.ShopifyAPIKey,
		cfg.ShopifyAPISecret,
		cfg.ShopifyAPIVersion,
		cfg.ShopifyRateLimit,
		logger,
		metrics,
	)

	// Webhook deliveries resolve their tenant on every request; cache the
	// domain lookup.
	tenants := store.NewTenantCache(db, cfg.TenantCacheTTL, metrics)

	engine := sync.NewEngine(db, tenants, logger, metrics)
	ingestor := sync.NewIngestor(shopifyClient, db, db, logger, metrics)

	router := httpserver.NewRouter(httpserver.Deps{
		Config:   cfg,
		Store:    db,
		Engine:   engine,
		Ingestor: ingestor,
		Shopify:  shopifyClient,
		Firebase: fbClient,
		Logger:   logger,
		Metrics:  metrics,
	})

	logger.Info("server starting", "addr", cfg.ServerAddr, "webhook_base_url", cfg.WebhookBaseURL)
	if err := router.Run(cfg.ServerAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
