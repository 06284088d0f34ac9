package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
)

// UpsertOrder writes an order keyed by (tenant, shopify_order_id).
// customerID is the local customers.id, nil for guest orders or when the
// bulk path found no matching customer row. Overwrite semantics match the
// other entities; the update branch also inserts when the row is missing, so
// an orders/updated delivery arriving before orders/create still lands.
func (p *PostgresStore) UpsertOrder(ctx context.Context, tenantID uuid.UUID, o models.Order, customerID *int64, overwrite bool) error {
	if overwrite {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO orders (tenant_id, shopify_order_id, customer_id, total_price, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (tenant_id, shopify_order_id) DO UPDATE SET
				customer_id = EXCLUDED.customer_id,
				total_price = EXCLUDED.total_price,
				updated_at = EXCLUDED.updated_at
		`, tenantID, o.ID, customerID, float64(o.TotalPrice), o.CreatedAt, o.UpdatedAt)
		return err
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO orders (tenant_id, shopify_order_id, customer_id, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, shopify_order_id) DO NOTHING
	`, tenantID, o.ID, customerID, float64(o.TotalPrice), o.CreatedAt, o.UpdatedAt)
	return err
}
