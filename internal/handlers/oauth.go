package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchantpulse/shopify-sync-service/internal/config"
	"github.com/merchantpulse/shopify-sync-service/internal/shopify"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

// RegisterOAuthRoutes registers the Shopify OAuth handshake.
//
// GET /shopify/auth?shop&firebase_uid — redirect to Shopify's authorize URL,
// round-tripping the caller's identity as opaque state.
// GET /shopify/callback?shop&code&state — exchange the code, persist the
// tenant, link the user, and best-effort register webhooks.
func RegisterOAuthRoutes(r gin.IRoutes, client *shopify.Client, st *store.PostgresStore, ingestor *sync.Ingestor, cfg *config.Config, logger *slog.Logger) {
	redirectURI := cfg.AppURL + "/shopify/callback"

	r.GET("/shopify/auth", func(c *gin.Context) {
		shop := c.Query("shop")
		firebaseUID := c.Query("firebase_uid")
		if shop == "" {
			c.String(http.StatusBadRequest, "missing shop parameter")
			return
		}
		if firebaseUID == "" {
			c.String(http.StatusBadRequest, "missing firebase_uid parameter")
			return
		}

		c.Redirect(http.StatusFound, client.AuthorizeURL(shop, cfg.OAuthScopes, redirectURI, firebaseUID))
	})

	r.GET("/shopify/callback", func(c *gin.Context) {
		shop := c.Query("shop")
		code := c.Query("code")
		state := c.Query("state")
		if shop == "" || code == "" {
			c.String(http.StatusBadRequest, "missing shop or code")
			return
		}
		if state == "" {
			c.String(http.StatusBadRequest, "missing state")
			return
		}

		ctx := c.Request.Context()

		accessToken, err := client.ExchangeCode(ctx, shop, code)
		if err != nil {
			c.String(http.StatusInternalServerError, "OAuth error: "+err.Error())
			return
		}

		// A re-auth overwrites the credential in place.
		if err := st.UpsertTenant(ctx, shop, accessToken); err != nil {
			c.String(http.StatusInternalServerError, "OAuth error: "+err.Error())
			return
		}
		if err := st.LinkUser(ctx, state, shop); err != nil {
			c.String(http.StatusInternalServerError, "OAuth error: "+err.Error())
			return
		}

		// Webhook registration must not fail a connect that already worked.
		if err := ingestor.RegisterWebhooks(ctx, shop, cfg.WebhookBaseURL); err != nil {
			logger.Error("failed to register webhooks after OAuth", "shop", shop, "error", err)
		}

		c.String(http.StatusOK, fmt.Sprintf("Shop %s connected successfully. You can close this window and return to the dashboard.", shop))
	})
}
