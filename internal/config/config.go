package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Shopify app credentials. The webhook secret signs every push
	// notification; when it is empty, signature checks are skipped with a
	// warning (local development only).
	ShopifyAPIKey        string `env:"SHOPIFY_API_KEY"`
	ShopifyAPISecret     string `env:"SHOPIFY_API_SECRET"`
	ShopifyWebhookSecret string `env:"SHOPIFY_WEBHOOK_SECRET"`
	ShopifyAPIVersion    string `env:"SHOPIFY_API_VERSION" envDefault:"2023-07"`

	// Shopify's Admin REST API allows ~2 requests/second per store.
	ShopifyRateLimit float64 `env:"SHOPIFY_RATE_LIMIT" envDefault:"2"`

	// AppURL is this service's public base URL, used for the OAuth redirect.
	// WebhookBaseURL is where Shopify delivers push notifications; usually
	// the same host, kept separate so a tunnel can front the webhooks.
	AppURL         string `env:"APP_URL" envDefault:"http://localhost:8080"`
	WebhookBaseURL string `env:"WEBHOOK_BASE_URL"`

	OAuthScopes string `env:"SHOPIFY_SCOPES" envDefault:"read_customers,read_products,read_orders,read_checkouts"`

	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.WebhookBaseURL == "" {
		cfg.WebhookBaseURL = cfg.AppURL
	}

	return cfg, nil
}
