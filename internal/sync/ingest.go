package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/obs"
)

// AdminAPI is the outbound Shopify surface the bulk and webhook-management
// paths use. *shopify.Client satisfies it.
type AdminAPI interface {
	Customers(ctx context.Context, shop, token string) ([]models.Customer, error)
	Products(ctx context.Context, shop, token string) ([]models.Product, error)
	OrdersPage(ctx context.Context, shop, token, pageURL string) ([]models.Order, string, error)
	ListWebhooks(ctx context.Context, shop, token, topic string) ([]models.Webhook, error)
	CreateWebhook(ctx context.Context, shop, token, topic, address string) error
	DeleteWebhook(ctx context.Context, shop, token string, id int64) error
}

// Directory is the tenant directory: it maps shop domains to tenants and
// their access credentials.
type Directory interface {
	TenantByDomain(ctx context.Context, domain string) (models.Tenant, error)
	AccessTokenByDomain(ctx context.Context, domain string) (models.Tenant, error)
}

// Ingestor runs operator-triggered bulk pulls against the Shopify Admin API,
// streaming every record through the same upserts the push path uses. Bulk
// writes never overwrite: first seen wins, and re-runs are no-ops.
type Ingestor struct {
	shopify AdminAPI
	store   Store
	dir     Directory
	logger  *slog.Logger
	metrics *obs.Metrics
}

// NewIngestor creates an Ingestor.
func NewIngestor(api AdminAPI, st Store, dir Directory, logger *slog.Logger, m *obs.Metrics) *Ingestor {
	return &Ingestor{shopify: api, store: st, dir: dir, logger: logger, metrics: m}
}

// IngestCustomers pulls and stores the shop's customers. Single page.
func (in *Ingestor) IngestCustomers(ctx context.Context, shop string) error {
	t, err := in.dir.AccessTokenByDomain(ctx, shop)
	if err != nil {
		return in.outcome("customers", err)
	}

	customers, err := in.shopify.Customers(ctx, shop, t.AccessToken)
	if err != nil {
		return in.outcome("customers", err)
	}

	for _, c := range customers {
		if err := in.store.UpsertCustomer(ctx, t.ID, c, false); err != nil {
			return in.outcome("customers", fmt.Errorf("upsert customer %d: %w", c.ID, err))
		}
		in.count("customer")
	}

	in.logger.Info("customer ingestion complete", "shop", shop, "records", len(customers))
	return in.outcome("customers", nil)
}

// IngestProducts pulls and stores the shop's products. Single page.
func (in *Ingestor) IngestProducts(ctx context.Context, shop string) error {
	t, err := in.dir.AccessTokenByDomain(ctx, shop)
	if err != nil {
		return in.outcome("products", err)
	}

	products, err := in.shopify.Products(ctx, shop, t.AccessToken)
	if err != nil {
		return in.outcome("products", err)
	}

	for _, p := range products {
		if err := in.store.UpsertProduct(ctx, t.ID, p, false); err != nil {
			return in.outcome("products", fmt.Errorf("upsert product %d: %w", p.ID, err))
		}
		in.count("product")
	}

	in.logger.Info("product ingestion complete", "shop", shop, "records", len(products))
	return in.outcome("products", nil)
}

// IngestOrders walks the cursor-paginated orders endpoint to completion.
// Each page's records are written before the next page is requested. The
// customer reference is looked up but not created here: bulk callers ingest
// customers before orders, and an unmatched reference is stored as NULL.
func (in *Ingestor) IngestOrders(ctx context.Context, shop string) error {
	t, err := in.dir.AccessTokenByDomain(ctx, shop)
	if err != nil {
		return in.outcome("orders", err)
	}

	pageURL := ""
	pages, total := 0, 0
	for {
		orders, next, err := in.shopify.OrdersPage(ctx, shop, t.AccessToken, pageURL)
		if err != nil {
			return in.outcome("orders", fmt.Errorf("page %d: %w", pages+1, err))
		}
		pages++

		for _, o := range orders {
			var customerID *int64
			if o.Customer != nil {
				customerID, err = in.store.CustomerIDByShopifyID(ctx, t.ID, o.Customer.ID)
				if err != nil {
					return in.outcome("orders", fmt.Errorf("resolve customer %d: %w", o.Customer.ID, err))
				}
			}
			if err := in.store.UpsertOrder(ctx, t.ID, o, customerID, false); err != nil {
				return in.outcome("orders", fmt.Errorf("upsert order %d: %w", o.ID, err))
			}
			in.count("order")
			total++
		}

		if next == "" {
			break
		}
		pageURL = next
	}

	in.logger.Info("order ingestion complete", "shop", shop, "pages", pages, "records", total)
	return in.outcome("orders", nil)
}

// IngestEvent appends a custom audit event for a shop. Unlike the entity
// pulls this needs no credential, only an existing tenant.
func (in *Ingestor) IngestEvent(ctx context.Context, shop, eventType string, payload []byte) error {
	t, err := in.dir.TenantByDomain(ctx, shop)
	if err != nil {
		return err
	}
	return in.store.AppendEvent(ctx, t.ID, eventType, payload)
}

func (in *Ingestor) count(kind string) {
	if in.metrics != nil {
		in.metrics.RecordsUpserted.WithLabelValues(kind, "bulk").Inc()
	}
}

func (in *Ingestor) outcome(kind string, err error) error {
	if in.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		in.metrics.IngestRunsTotal.WithLabelValues(kind, status).Inc()
	}
	return err
}
