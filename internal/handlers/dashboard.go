package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/auth"
	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
)

// RegisterDashboardRoutes registers the bearer-gated read APIs the dashboard
// client consumes. The group passed in must already enforce auth.RequireUser.
//
// GET  /api/metrics?shop&start&end
// GET  /api/stores
// GET  /api/shop?store_id
// POST /api/connect-store  body {"shop"}
func RegisterDashboardRoutes(r gin.IRoutes, st *store.PostgresStore) {
	r.GET("/api/metrics", func(c *gin.Context) {
		shop := c.Query("shop")
		if shop == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop is required"})
			return
		}

		start, err := parseDate(c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339 or YYYY-MM-DD"})
			return
		}
		end, err := parseDate(c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339 or YYYY-MM-DD"})
			return
		}

		ctx := c.Request.Context()

		tenantID, err := st.TenantIDByDomain(ctx, shop)
		if errors.Is(err, store.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		summary, err := st.MetricsSummary(ctx, tenantID, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	r.GET("/api/stores", func(c *gin.Context) {
		stores, err := st.StoresForUser(c.Request.Context(), auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stores": stores})
	})

	r.GET("/api/shop", func(c *gin.Context) {
		storeID := uuid.Nil
		if raw := c.Query("store_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be a UUID"})
				return
			}
			storeID = id
		}

		domain, err := st.ShopForUser(c.Request.Context(), auth.UserID(c), storeID)
		if errors.Is(err, store.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found or access denied"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shop": domain})
	})

	r.POST("/api/connect-store", func(c *gin.Context) {
		var req models.ShopRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Shop == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop is required"})
			return
		}

		err := st.LinkUser(c.Request.Context(), auth.UserID(c), req.Shop)
		if errors.Is(err, store.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found; connect it via Shopify OAuth first"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "store connected"})
	})
}

// parseDate accepts RFC3339 or a bare date, the two forms the dashboard sends.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
