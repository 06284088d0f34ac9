package store

import (
	"context"

	"github.com/google/uuid"
)

// AppendEvent records an audit event for a tenant. The events table is an
// append-only log with no uniqueness constraint.
func (p *PostgresStore) AppendEvent(ctx context.Context, tenantID uuid.UUID, eventType string, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO events (tenant_id, event_type, payload)
		VALUES ($1, $2, $3)
	`, tenantID, eventType, payload)
	return err
}
