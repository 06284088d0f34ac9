package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merchantpulse/shopify-sync-service/internal/auth"
	"github.com/merchantpulse/shopify-sync-service/internal/config"
	"github.com/merchantpulse/shopify-sync-service/internal/handlers"
	"github.com/merchantpulse/shopify-sync-service/internal/obs"
	"github.com/merchantpulse/shopify-sync-service/internal/shopify"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config   *config.Config
	Store    *store.PostgresStore
	Engine   *sync.Engine
	Ingestor *sync.Ingestor
	Shopify  *shopify.Client
	Firebase *fbauth.Client
	Logger   *slog.Logger
	Metrics  *obs.Metrics
}

// NewRouter wires the public, webhook, operator, OAuth, and dashboard routes.
// Public: /health, /ready, /metrics/prometheus
// Webhooks + operator + OAuth: unauthenticated at the HTTP layer (webhooks
// are gated by signature, OAuth by Shopify itself)
// Dashboard: bearer-gated /api group
func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics/prometheus", gin.WrapH(promhttp.Handler()))

	handlers.RegisterWebhookRoutes(r, d.Engine, d.Config.ShopifyWebhookSecret, d.Logger, d.Metrics)
	handlers.RegisterIngestRoutes(r, d.Ingestor)
	handlers.RegisterWebhookAdminRoutes(r, d.Ingestor, d.Config.WebhookBaseURL)
	handlers.RegisterOAuthRoutes(r, d.Shopify, d.Store, d.Ingestor, d.Config, d.Logger)

	// Dashboard group enforces caller identity via Firebase bearer tokens.
	dashboard := r.Group("/")
	dashboard.Use(auth.RequireUser(d.Firebase))
	handlers.RegisterDashboardRoutes(dashboard, d.Store)

	return r
}
