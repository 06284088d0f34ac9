package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
)

var (
	// ErrTenantNotFound means no tenant exists for the given shop domain.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNoAccessToken means the tenant exists but OAuth has not completed
	// (or the token was cleared). The remediation is a reconnect, not a
	// create, which is why it is distinct from ErrTenantNotFound.
	ErrNoAccessToken = errors.New("no access token for tenant")
)

// UpsertTenant creates the tenant for a shop domain, or overwrites its access
// token in place. A re-auth always wins.
func (p *PostgresStore) UpsertTenant(ctx context.Context, domain, accessToken string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO tenants (id, name, shopify_domain, shopify_access_token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (shopify_domain) DO UPDATE SET shopify_access_token = EXCLUDED.shopify_access_token
	`, uuid.New(), domain, domain, accessToken)
	return err
}

// TenantIDByDomain resolves a shop domain to its tenant id.
func (p *PostgresStore) TenantIDByDomain(ctx context.Context, domain string) (uuid.UUID, error) {
	var id uuid.UUID
	err := p.pool.QueryRow(ctx, `
		SELECT id FROM tenants WHERE shopify_domain = $1
	`, domain).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrTenantNotFound
	}
	return id, err
}

// TenantByDomain returns the full tenant record for a shop domain.
// AccessToken is empty when OAuth has not completed.
func (p *PostgresStore) TenantByDomain(ctx context.Context, domain string) (models.Tenant, error) {
	var (
		t     models.Tenant
		token *string
	)
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, shopify_domain, shopify_access_token
		FROM tenants WHERE shopify_domain = $1
	`, domain).Scan(&t.ID, &t.Name, &t.Domain, &token)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Tenant{}, ErrTenantNotFound
	}
	if err != nil {
		return models.Tenant{}, err
	}
	if token != nil {
		t.AccessToken = *token
	}
	return t, nil
}

// AccessTokenByDomain resolves the tenant and its credential in one step,
// distinguishing "no such tenant" from "tenant never finished OAuth".
func (p *PostgresStore) AccessTokenByDomain(ctx context.Context, domain string) (models.Tenant, error) {
	t, err := p.TenantByDomain(ctx, domain)
	if err != nil {
		return models.Tenant{}, err
	}
	if t.AccessToken == "" {
		return models.Tenant{}, ErrNoAccessToken
	}
	return t, nil
}

// LinkUser idempotently associates an identity-provider subject with the
// tenant for a shop domain. Fails with ErrTenantNotFound when the store has
// never been connected.
func (p *PostgresStore) LinkUser(ctx context.Context, firebaseUID, domain string) error {
	tenantID, err := p.TenantIDByDomain(ctx, domain)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO user_stores (firebase_uid, tenant_id)
		VALUES ($1, $2)
		ON CONFLICT (firebase_uid, tenant_id) DO NOTHING
	`, firebaseUID, tenantID)
	return err
}

// StoresForUser lists the stores linked to an identity-provider subject,
// newest link first.
func (p *PostgresStore) StoresForUser(ctx context.Context, firebaseUID string) ([]models.Store, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT t.id, t.name, t.shopify_domain, us.created_at
		FROM user_stores us
		JOIN tenants t ON t.id = us.tenant_id
		WHERE us.firebase_uid = $1
		ORDER BY us.created_at DESC
	`, firebaseUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Domain, &s.ConnectedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// ShopForUser returns the domain of one of the user's linked stores. With a
// zero storeID it returns the most recently linked store.
func (p *PostgresStore) ShopForUser(ctx context.Context, firebaseUID string, storeID uuid.UUID) (string, error) {
	var (
		domain string
		err    error
	)
	if storeID != uuid.Nil {
		err = p.pool.QueryRow(ctx, `
			SELECT t.shopify_domain
			FROM user_stores us
			JOIN tenants t ON t.id = us.tenant_id
			WHERE us.firebase_uid = $1 AND t.id = $2
		`, firebaseUID, storeID).Scan(&domain)
	} else {
		err = p.pool.QueryRow(ctx, `
			SELECT t.shopify_domain
			FROM user_stores us
			JOIN tenants t ON t.id = us.tenant_id
			WHERE us.firebase_uid = $1
			ORDER BY us.created_at DESC
			LIMIT 1
		`, firebaseUID).Scan(&domain)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrTenantNotFound
	}
	return domain, err
}
