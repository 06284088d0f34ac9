package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Tenant is one connected store. AccessToken is empty until OAuth completes.
type Tenant struct {
	ID          uuid.UUID
	Name        string
	Domain      string
	AccessToken string
}

// ShopRequest is the body of the operator endpoints that act on one store.
type ShopRequest struct {
	Shop string `json:"shop"`
}

// EventIngestRequest is the POST /ingest/events payload.
type EventIngestRequest struct {
	Shop      string          `json:"shop"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// Store is a connected store as listed for a dashboard user.
type Store struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Domain      string    `json:"shopify_domain"`
	ConnectedAt time.Time `json:"connected_at"`
}

// CustomerSpend is one row of the top-customers rollup.
type CustomerSpend struct {
	Name  string  `json:"name"`
	Spend float64 `json:"spend"`
}

// DateCount is an orders-per-day data point.
type DateCount struct {
	Date   string `json:"date"`
	Orders int64  `json:"orders"`
}

// DateRevenue is a revenue-per-day data point.
type DateRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// MetricsSummary is the GET /api/metrics response consumed by the dashboard.
type MetricsSummary struct {
	Customers    int64           `json:"customers"`
	Orders       int64           `json:"orders"`
	Revenue      float64         `json:"revenue"`
	AOV          float64         `json:"aov"`
	RepeatRate   float64         `json:"repeatRate"`
	TopCustomers []CustomerSpend `json:"topCustomers"`
	OrdersByDate []DateCount     `json:"ordersByDate"`
	Trends       []DateRevenue   `json:"trends"`
}
