package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/obs"
)

// Client talks to the Shopify Admin REST API on behalf of connected stores.
// All calls share one rate limiter, since Shopify throttles per app.
type Client struct {
	http       *http.Client
	apiKey     string
	apiSecret  string
	apiVersion string
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *obs.Metrics

	// scheme is overridden to "http" by tests that stand in a local server
	// for the shop host.
	scheme string
}

// New creates a Client. rps bounds outbound request rate.
func New(apiKey, apiSecret, apiVersion string, rps float64, logger *slog.Logger, m *obs.Metrics) *Client {
	return &Client{
		http:       &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		apiVersion: apiVersion,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		metrics:    m,
		scheme:     "https",
	}
}

// AuthorizeURL builds the OAuth authorization URL for a shop. state is
// round-tripped opaquely and comes back on the callback.
func (c *Client) AuthorizeURL(shop, scopes, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", c.apiKey)
	q.Set("scope", scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return fmt.Sprintf("%s://%s/admin/oauth/authorize?%s", c.scheme, shop, q.Encode())
}

// ExchangeCode swaps an OAuth authorization code for a long-lived access token.
func (c *Client) ExchangeCode(ctx context.Context, shop, code string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{
		"client_id":     c.apiKey,
		"client_secret": c.apiSecret,
		"code":          code,
	}
	u := fmt.Sprintf("%s://%s/admin/oauth/access_token", c.scheme, shop)
	if err := c.doJSON(ctx, http.MethodPost, u, "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("shopify: empty access token for %s", shop)
	}
	return out.AccessToken, nil
}

// Customers pulls the customer list for a shop. Single page.
func (c *Client) Customers(ctx context.Context, shop, token string) ([]models.Customer, error) {
	var out struct {
		Customers []models.Customer `json:"customers"`
	}
	u := c.adminURL(shop, "customers.json")
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

// Products pulls the product list for a shop. Single page.
func (c *Client) Products(ctx context.Context, shop, token string) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	u := c.adminURL(shop, "products.json")
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// OrdersPage fetches one page of orders. An empty pageURL requests the first
// page (all statuses, maximum page size). The second return value is the URL
// of the next page, or "" on the final page.
func (c *Client) OrdersPage(ctx context.Context, shop, token, pageURL string) ([]models.Order, string, error) {
	if pageURL == "" {
		pageURL = c.adminURL(shop, "orders.json?status=any&limit=250")
	}

	resp, err := c.do(ctx, http.MethodGet, pageURL, token, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("shopify: decode orders page: %w", err)
	}

	return out.Orders, NextPageURL(resp.Header.Get("Link")), nil
}

// ListWebhooks returns the shop's webhook subscriptions, filtered to one
// topic when topic is non-empty.
func (c *Client) ListWebhooks(ctx context.Context, shop, token, topic string) ([]models.Webhook, error) {
	var out struct {
		Webhooks []models.Webhook `json:"webhooks"`
	}
	u := c.adminURL(shop, "webhooks.json")
	if topic != "" {
		u += "?topic=" + url.QueryEscape(topic)
	}
	if err := c.doJSON(ctx, http.MethodGet, u, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Webhooks, nil
}

// CreateWebhook subscribes address to topic on the shop.
func (c *Client) CreateWebhook(ctx context.Context, shop, token, topic, address string) error {
	body := map[string]models.Webhook{
		"webhook": {Topic: topic, Address: address, Format: "json"},
	}
	u := c.adminURL(shop, "webhooks.json")
	return c.doJSON(ctx, http.MethodPost, u, token, body, nil)
}

// DeleteWebhook removes a webhook subscription by id.
func (c *Client) DeleteWebhook(ctx context.Context, shop, token string, id int64) error {
	u := c.adminURL(shop, fmt.Sprintf("webhooks/%d.json", id))
	return c.doJSON(ctx, http.MethodDelete, u, token, nil, nil)
}

func (c *Client) adminURL(shop, path string) string {
	return fmt.Sprintf("%s://%s/admin/api/%s/%s", c.scheme, shop, c.apiVersion, path)
}

// do issues one rate-limited request and returns the response with a 2xx
// status. The caller owns the body.
func (c *Client) do(ctx context.Context, method, u, token string, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Shopify-Access-Token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ShopifyRequests.WithLabelValues("network_error").Inc()
		}
		return nil, fmt.Errorf("shopify: %s %s: %w", method, u, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		if c.metrics != nil {
			c.metrics.ShopifyRequests.WithLabelValues("http_error").Inc()
		}
		return nil, fmt.Errorf("shopify: %s %s: status %d: %s", method, u, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if c.metrics != nil {
		c.metrics.ShopifyRequests.WithLabelValues("ok").Inc()
	}
	return resp, nil
}

// doJSON issues a request and decodes a JSON response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, u, token string, body, out any) error {
	resp, err := c.do(ctx, method, u, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("shopify: decode %s response: %w", u, err)
	}
	return nil
}
