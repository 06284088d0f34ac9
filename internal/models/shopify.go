package models

import "time"

// Customer is a Shopify customer record as delivered by both the bulk Admin
// API and customers/* webhooks. Timestamps are the source system's, not ours.
type Customer struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Variant is a product variant; only the price matters here.
type Variant struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price Money  `json:"price"`
}

// Product is a Shopify product record.
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Variants  []Variant `json:"variants"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price returns the first variant's price. Multi-variant pricing is
// deliberately flattened to the first variant at ingestion time.
func (p Product) Price() Money {
	if len(p.Variants) > 0 {
		return p.Variants[0].Price
	}
	return 0
}

// Order is a Shopify order record. Customer is nil for guest orders.
type Order struct {
	ID         int64     `json:"id"`
	TotalPrice Money     `json:"total_price"`
	Customer   *Customer `json:"customer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Webhook is a webhook subscription as returned by the Shopify Admin API.
type Webhook struct {
	ID      int64  `json:"id"`
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format"`
}
