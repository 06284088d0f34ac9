package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
)

// UpsertProduct writes a product keyed by (tenant, shopify_product_id).
// Price is flattened to the first variant's price. Overwrite semantics are
// the same as UpsertCustomer: false for bulk/create (first-seen wins), true
// for push updates (last arrival wins).
func (p *PostgresStore) UpsertProduct(ctx context.Context, tenantID uuid.UUID, prod models.Product, overwrite bool) error {
	if overwrite {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO products (tenant_id, shopify_product_id, title, price, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (tenant_id, shopify_product_id) DO UPDATE SET
				title = EXCLUDED.title,
				price = EXCLUDED.price,
				updated_at = EXCLUDED.updated_at
		`, tenantID, prod.ID, prod.Title, float64(prod.Price()), prod.CreatedAt, prod.UpdatedAt)
		return err
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO products (tenant_id, shopify_product_id, title, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, shopify_product_id) DO NOTHING
	`, tenantID, prod.ID, prod.Title, float64(prod.Price()), prod.CreatedAt, prod.UpdatedAt)
	return err
}
