package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the sync service. Components
// tolerate a nil *Metrics so unit tests can skip registration.
type Metrics struct {
	WebhooksTotal     *prometheus.CounterVec
	RecordsUpserted   *prometheus.CounterVec
	IngestRunsTotal   *prometheus.CounterVec
	ShopifyRequests   *prometheus.CounterVec
	TenantCacheHits   prometheus.Counter
	TenantCacheMisses prometheus.Counter
}

// New initializes and registers the Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		WebhooksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopify_sync",
			Subsystem: "webhooks",
			Name:      "received_total",
			Help:      "Webhook deliveries by topic and outcome.",
		}, []string{"topic", "status"}), // status: processed, unauthorized, abandoned, error
		RecordsUpserted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopify_sync",
			Subsystem: "store",
			Name:      "records_upserted_total",
			Help:      "Entity upserts by kind and source path.",
		}, []string{"kind", "source"}), // source: bulk, push
		IngestRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopify_sync",
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Bulk ingestion runs by kind and outcome.",
		}, []string{"kind", "status"}),
		ShopifyRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopify_sync",
			Subsystem: "shopify",
			Name:      "requests_total",
			Help:      "Outbound Shopify Admin API requests by outcome.",
		}, []string{"status"}),
		TenantCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "shopify_sync",
			Subsystem: "tenants",
			Name:      "cache_hits_total",
			Help:      "Tenant lookup cache hits.",
		}),
		TenantCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "shopify_sync",
			Subsystem: "tenants",
			Name:      "cache_misses_total",
			Help:      "Tenant lookup cache misses.",
		}),
	}
}
