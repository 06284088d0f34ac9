package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/obs"
)

// Topic identifies a webhook topic. The set is closed: only the constants
// below exist, the HTTP layer registers exactly one route per constant, and
// dispatch is an exhaustive switch rather than a string-keyed map.
type Topic string

const (
	TopicOrdersCreate    Topic = "orders/create"
	TopicOrdersUpdated   Topic = "orders/updated"
	TopicOrdersPaid      Topic = "orders/paid"
	TopicOrdersCancelled Topic = "orders/cancelled"
	TopicCustomersCreate Topic = "customers/create"
	TopicCustomersUpdate Topic = "customers/update"
	TopicProductsCreate  Topic = "products/create"
	TopicProductsUpdate  Topic = "products/update"
)

// AllTopics lists every subscribed topic, in registration order.
var AllTopics = []Topic{
	TopicOrdersCreate,
	TopicOrdersUpdated,
	TopicOrdersPaid,
	TopicOrdersCancelled,
	TopicCustomersCreate,
	TopicCustomersUpdate,
	TopicProductsCreate,
	TopicProductsUpdate,
}

// Store is the slice of the persistence layer the reconciliation paths need.
// *store.PostgresStore satisfies it.
type Store interface {
	UpsertCustomer(ctx context.Context, tenantID uuid.UUID, c models.Customer, overwrite bool) error
	UpsertProduct(ctx context.Context, tenantID uuid.UUID, p models.Product, overwrite bool) error
	UpsertOrder(ctx context.Context, tenantID uuid.UUID, o models.Order, customerID *int64, overwrite bool) error
	EnsureCustomer(ctx context.Context, tenantID uuid.UUID, c models.Customer) (int64, error)
	CustomerIDByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyCustomerID int64) (*int64, error)
	AppendEvent(ctx context.Context, tenantID uuid.UUID, eventType string, payload []byte) error
}

// TenantResolver resolves a shop domain to a tenant id.
type TenantResolver interface {
	TenantIDByDomain(ctx context.Context, domain string) (uuid.UUID, error)
}

// Engine applies verified push notifications to the relational model. Both
// the push path and the bulk path converge on the same single-statement
// upserts, so concurrent deliveries and bulk runs contend only on the
// per-entity uniqueness constraints.
type Engine struct {
	store   Store
	tenants TenantResolver
	logger  *slog.Logger
	metrics *obs.Metrics
}

// NewEngine creates an Engine.
func NewEngine(st Store, tenants TenantResolver, logger *slog.Logger, m *obs.Metrics) *Engine {
	return &Engine{store: st, tenants: tenants, logger: logger, metrics: m}
}

// HandlePush applies one verified webhook delivery. The caller decides what
// to do with the error; per the delivery contract it is logged and the
// delivery is still acknowledged, so Shopify does not retry-storm over a
// tenant we cannot resolve.
func (e *Engine) HandlePush(ctx context.Context, topic Topic, shop string, body []byte) error {
	tenantID, err := e.tenants.TenantIDByDomain(ctx, shop)
	if err != nil {
		return fmt.Errorf("resolve tenant %q: %w", shop, err)
	}

	switch topic {
	case TopicCustomersCreate:
		err = e.applyCustomer(ctx, tenantID, body, false)
	case TopicCustomersUpdate:
		err = e.applyCustomer(ctx, tenantID, body, true)
	case TopicProductsCreate:
		err = e.applyProduct(ctx, tenantID, body, false)
	case TopicProductsUpdate:
		err = e.applyProduct(ctx, tenantID, body, true)
	case TopicOrdersCreate:
		err = e.applyOrder(ctx, tenantID, body, false)
	case TopicOrdersUpdated, TopicOrdersPaid, TopicOrdersCancelled:
		// Paid and cancelled collapse into the generic update; no payment or
		// cancellation status is persisted yet.
		err = e.applyOrder(ctx, tenantID, body, true)
	default:
		err = fmt.Errorf("unroutable topic %q", topic)
	}
	if err != nil {
		return fmt.Errorf("apply %s for %s: %w", topic, shop, err)
	}

	// Audit trail. Best effort: a failed append must not fail a delivery
	// whose upsert already landed.
	if err := e.store.AppendEvent(ctx, tenantID, string(topic), body); err != nil {
		e.logger.Warn("failed to append audit event", "topic", topic, "shop", shop, "error", err)
	}

	return nil
}

func (e *Engine) applyCustomer(ctx context.Context, tenantID uuid.UUID, body []byte, overwrite bool) error {
	var c models.Customer
	if err := json.Unmarshal(body, &c); err != nil {
		return fmt.Errorf("decode customer payload: %w", err)
	}
	if err := e.store.UpsertCustomer(ctx, tenantID, c, overwrite); err != nil {
		return err
	}
	e.count("customer")
	return nil
}

func (e *Engine) applyProduct(ctx context.Context, tenantID uuid.UUID, body []byte, overwrite bool) error {
	var p models.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return fmt.Errorf("decode product payload: %w", err)
	}
	if err := e.store.UpsertProduct(ctx, tenantID, p, overwrite); err != nil {
		return err
	}
	e.count("product")
	return nil
}

func (e *Engine) applyOrder(ctx context.Context, tenantID uuid.UUID, body []byte, overwrite bool) error {
	var o models.Order
	if err := json.Unmarshal(body, &o); err != nil {
		return fmt.Errorf("decode order payload: %w", err)
	}

	// Events can arrive in causally inconsistent order: an order may land
	// before its customer's own create event. Ensure the customer row exists
	// first so the order always gets its reference.
	var customerID *int64
	if o.Customer != nil {
		id, err := e.store.EnsureCustomer(ctx, tenantID, *o.Customer)
		if err != nil {
			return fmt.Errorf("ensure customer %d: %w", o.Customer.ID, err)
		}
		customerID = &id
	}

	if err := e.store.UpsertOrder(ctx, tenantID, o, customerID, overwrite); err != nil {
		return err
	}
	e.count("order")
	return nil
}

func (e *Engine) count(kind string) {
	if e.metrics != nil {
		e.metrics.RecordsUpserted.WithLabelValues(kind, "push").Inc()
	}
}
