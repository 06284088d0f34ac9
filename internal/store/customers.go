package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
)

// UpsertCustomer writes a customer keyed by (tenant, shopify_customer_id).
//
// With overwrite=false the write is first-seen-wins: an existing row is left
// untouched (bulk ingestion and duplicate create deliveries never clobber).
// With overwrite=true the mutable attributes are replaced unconditionally,
// which is the push-update path: last write by arrival wins.
//
// Either way it is a single atomic statement resolved by the uniqueness
// constraint, never a read-then-write.
func (p *PostgresStore) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, c models.Customer, overwrite bool) error {
	if overwrite {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO customers (tenant_id, shopify_customer_id, email, first_name, last_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (tenant_id, shopify_customer_id) DO UPDATE SET
				email = EXCLUDED.email,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				updated_at = EXCLUDED.updated_at
		`, tenantID, c.ID, c.Email, c.FirstName, c.LastName, c.CreatedAt, c.UpdatedAt)
		return err
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO customers (tenant_id, shopify_customer_id, email, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, shopify_customer_id) DO NOTHING
	`, tenantID, c.ID, c.Email, c.FirstName, c.LastName, c.CreatedAt, c.UpdatedAt)
	return err
}

// EnsureCustomer makes sure a customer row exists and returns its local id.
//
// The no-op DO UPDATE makes the statement return the id whether the row was
// just inserted or already present, without a separate select and without a
// race against a concurrent insert of the same customer. Used by the order
// webhook path, where an order can arrive before its customer's own event.
func (p *PostgresStore) EnsureCustomer(ctx context.Context, tenantID uuid.UUID, c models.Customer) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO customers (tenant_id, shopify_customer_id, email, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, shopify_customer_id) DO UPDATE SET
			shopify_customer_id = EXCLUDED.shopify_customer_id
		RETURNING id
	`, tenantID, c.ID, c.Email, c.FirstName, c.LastName, c.CreatedAt, c.UpdatedAt).Scan(&id)
	return id, err
}

// CustomerIDByShopifyID resolves a source customer id to the local row id.
// Returns nil without error when the customer has not been ingested yet.
func (p *PostgresStore) CustomerIDByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyCustomerID int64) (*int64, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id FROM customers WHERE tenant_id = $1 AND shopify_customer_id = $2
	`, tenantID, shopifyCustomerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return nil, err
	}
	return &id, nil
}
