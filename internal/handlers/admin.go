package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

// RegisterWebhookAdminRoutes registers the operator endpoints that manage
// webhook subscriptions on the Shopify side.
//
// POST /api/register-webhooks    body {"shop": "..."}
// POST /api/unregister-webhooks  body {"shop": "..."}
func RegisterWebhookAdminRoutes(r gin.IRoutes, ingestor *sync.Ingestor, webhookBaseURL string) {
	r.POST("/api/register-webhooks", func(c *gin.Context) {
		var req models.ShopRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Shop == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop is required"})
			return
		}

		if err := ingestor.RegisterWebhooks(c.Request.Context(), req.Shop, webhookBaseURL); err != nil {
			ingestError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "webhooks registered for " + req.Shop})
	})

	r.POST("/api/unregister-webhooks", func(c *gin.Context) {
		var req models.ShopRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Shop == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop is required"})
			return
		}

		if err := ingestor.UnregisterWebhooks(c.Request.Context(), req.Shop, webhookBaseURL); err != nil {
			ingestError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "webhooks unregistered for " + req.Shop})
	})
}
