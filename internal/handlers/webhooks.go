package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchantpulse/shopify-sync-service/internal/obs"
	"github.com/merchantpulse/shopify-sync-service/internal/shopify"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

// RegisterWebhookRoutes registers one POST route per subscribed topic.
//
// POST /webhooks/{topic}
//   - Headers: X-Shopify-Shop-Domain (tenant), X-Shopify-Hmac-Sha256 (signature)
//   - 401 only on a failed signature check
//   - 200 otherwise, including when processing is abandoned: a non-2xx makes
//     Shopify retry indefinitely and eventually drop the subscription
func RegisterWebhookRoutes(r gin.IRoutes, engine *sync.Engine, webhookSecret string, logger *slog.Logger, m *obs.Metrics) {
	for _, topic := range sync.AllTopics {
		r.POST("/webhooks/"+string(topic), pushHandler(engine, topic, webhookSecret, logger, m))
	}
}

func pushHandler(engine *sync.Engine, topic sync.Topic, secret string, logger *slog.Logger, m *obs.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The signature covers the exact raw bytes, so they must be captured
		// before anything parses the body.
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if secret == "" {
			logger.Warn("webhook secret not configured, skipping signature verification", "topic", topic)
		} else if !shopify.VerifySignature(body, c.GetHeader("X-Shopify-Hmac-Sha256"), secret) {
			logger.Error("invalid webhook signature", "topic", topic)
			count(m, topic, "unauthorized")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		shop := c.GetHeader("X-Shopify-Shop-Domain")
		if shop == "" {
			logger.Error("webhook missing shop domain header", "topic", topic)
			count(m, topic, "abandoned")
			c.String(http.StatusOK, "OK")
			return
		}

		if err := engine.HandlePush(c.Request.Context(), topic, shop, body); err != nil {
			// Dropped, logged, still acknowledged.
			logger.Error("webhook processing abandoned", "topic", topic, "shop", shop, "error", err)
			status := "error"
			if errors.Is(err, store.ErrTenantNotFound) {
				status = "abandoned"
			}
			count(m, topic, status)
			c.String(http.StatusOK, "OK")
			return
		}

		count(m, topic, "processed")
		c.String(http.StatusOK, "OK")
	}
}

func count(m *obs.Metrics, topic sync.Topic, status string) {
	if m != nil {
		m.WebhooksTotal.WithLabelValues(string(topic), status).Inc()
	}
}
