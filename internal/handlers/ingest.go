package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

// RegisterIngestRoutes registers the operator-triggered bulk ingestion
// endpoints. These are synchronous, human-triggered runs, so unlike the
// webhook path their failures are surfaced to the caller.
//
// POST /ingest/customers|products|orders  body {"shop": "..."}
// POST /ingest/events                     body {"shop","event_type","payload"}
func RegisterIngestRoutes(r gin.IRoutes, ingestor *sync.Ingestor) {
	r.POST("/ingest/customers", runIngest(ingestor.IngestCustomers, "customers ingested"))
	r.POST("/ingest/products", runIngest(ingestor.IngestProducts, "products ingested"))
	r.POST("/ingest/orders", runIngest(ingestor.IngestOrders, "orders ingested"))

	r.POST("/ingest/events", func(c *gin.Context) {
		var req models.EventIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.Shop == "" || req.EventType == "" || len(req.Payload) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop, event_type, payload are required"})
			return
		}

		if err := ingestor.IngestEvent(c.Request.Context(), req.Shop, req.EventType, req.Payload); err != nil {
			ingestError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "event ingested"})
	})
}

func runIngest(run func(context.Context, string) error, okMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ShopRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Shop == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop is required"})
			return
		}

		if err := run(c.Request.Context(), req.Shop); err != nil {
			ingestError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": okMessage})
	}
}

// ingestError maps the error taxonomy onto operator-facing responses.
// ErrNoAccessToken is actionable (reconnect via OAuth), so its message
// passes through verbatim.
func ingestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrTenantNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no tenant for shop; connect the store via OAuth first"})
	case errors.Is(err, store.ErrNoAccessToken):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no access token for shop; reconnect the store via OAuth"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
