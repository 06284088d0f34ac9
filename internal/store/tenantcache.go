package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/obs"
)

// TenantResolver resolves a shop domain to a tenant id.
type TenantResolver interface {
	TenantIDByDomain(ctx context.Context, domain string) (uuid.UUID, error)
}

type tenantCacheEntry struct {
	id        uuid.UUID
	expiresAt time.Time
}

// TenantCache is a time-based in-memory cache in front of a TenantResolver.
// Every webhook delivery resolves its tenant, so the hot lookup is cached.
// Only successful resolutions are cached: a NotFound must stay fresh, or a
// store connected moments ago would keep bouncing webhooks until the TTL
// lapses.
type TenantCache struct {
	next    TenantResolver
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]tenantCacheEntry
	metrics *obs.Metrics
}

// NewTenantCache wraps a resolver with a TTL cache.
func NewTenantCache(next TenantResolver, ttl time.Duration, m *obs.Metrics) *TenantCache {
	return &TenantCache{
		next:    next,
		ttl:     ttl,
		entries: make(map[string]tenantCacheEntry),
		metrics: m,
	}
}

// TenantIDByDomain implements TenantResolver.
func (c *TenantCache) TenantIDByDomain(ctx context.Context, domain string) (uuid.UUID, error) {
	c.mu.RLock()
	entry, found := c.entries[domain]
	c.mu.RUnlock()

	if found && time.Now().Before(entry.expiresAt) {
		if c.metrics != nil {
			c.metrics.TenantCacheHits.Inc()
		}
		return entry.id, nil
	}

	if c.metrics != nil {
		c.metrics.TenantCacheMisses.Inc()
	}

	id, err := c.next.TenantIDByDomain(ctx, domain)
	if err != nil {
		return uuid.Nil, err
	}

	c.mu.Lock()
	c.entries[domain] = tenantCacheEntry{id: id, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return id, nil
}
