package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
)

// orderWindow builds the WHERE clause for order queries with an optional
// [start, end] window on the source created_at timestamp.
func orderWindow(tenantID uuid.UUID, start, end *time.Time) (string, []any) {
	where := "tenant_id = $1"
	args := []any{tenantID}
	if start != nil {
		args = append(args, *start)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return where, args
}

// MetricsSummary computes the dashboard rollups for one tenant. Customer
// count is all-time; order-derived figures honour the optional date window.
func (p *PostgresStore) MetricsSummary(ctx context.Context, tenantID uuid.UUID, start, end *time.Time) (models.MetricsSummary, error) {
	var m models.MetricsSummary

	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM customers WHERE tenant_id = $1
	`, tenantID).Scan(&m.Customers)
	if err != nil {
		return m, fmt.Errorf("count customers: %w", err)
	}

	where, args := orderWindow(tenantID, start, end)

	err = p.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0), COALESCE(AVG(total_price), 0)
		FROM orders
		WHERE `+where, args...).Scan(&m.Orders, &m.Revenue, &m.AOV)
	if err != nil {
		return m, fmt.Errorf("order totals: %w", err)
	}

	err = p.pool.QueryRow(ctx, `
		WITH orders_in_range AS (
			SELECT customer_id, COUNT(*) AS cnt
			FROM orders
			WHERE customer_id IS NOT NULL AND `+where+`
			GROUP BY customer_id
		)
		SELECT COALESCE(
			(SELECT COUNT(*) FROM orders_in_range WHERE cnt >= 2)::decimal /
			NULLIF((SELECT COUNT(*) FROM orders_in_range), 0)
		, 0)
	`, args...).Scan(&m.RepeatRate)
	if err != nil {
		return m, fmt.Errorf("repeat rate: %w", err)
	}

	m.TopCustomers, err = p.topCustomers(ctx, tenantID, start, end)
	if err != nil {
		return m, fmt.Errorf("top customers: %w", err)
	}

	m.OrdersByDate, m.Trends, err = p.orderTrends(ctx, where, args)
	if err != nil {
		return m, fmt.Errorf("order trends: %w", err)
	}

	return m, nil
}

// topCustomers returns the five customers with the highest spend in the
// window. Guest orders (no linked customer) are excluded; customers without
// an email are grouped under "Guest".
func (p *PostgresStore) topCustomers(ctx context.Context, tenantID uuid.UUID, start, end *time.Time) ([]models.CustomerSpend, error) {
	join := "o.customer_id = c.id"
	args := []any{tenantID}
	if start != nil {
		args = append(args, *start)
		join += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		join += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(c.email, ''), 'Guest') AS name, COALESCE(SUM(o.total_price), 0) AS spend
		FROM customers c
		LEFT JOIN orders o ON `+join+`
		WHERE c.tenant_id = $1
		GROUP BY 1
		ORDER BY spend DESC
		LIMIT 5
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []models.CustomerSpend{}
	for rows.Next() {
		var cs models.CustomerSpend
		if err := rows.Scan(&cs.Name, &cs.Spend); err != nil {
			return nil, err
		}
		top = append(top, cs)
	}
	return top, rows.Err()
}

// orderTrends returns per-day order counts and revenue in one pass.
func (p *PostgresStore) orderTrends(ctx context.Context, where string, args []any) ([]models.DateCount, []models.DateRevenue, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DATE(created_at)::text, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE created_at IS NOT NULL AND `+where+`
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)
	`, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	counts := []models.DateCount{}
	revenue := []models.DateRevenue{}
	for rows.Next() {
		var (
			date string
			n    int64
			rev  float64
		)
		if err := rows.Scan(&date, &n, &rev); err != nil {
			return nil, nil, err
		}
		counts = append(counts, models.DateCount{Date: date, Orders: n})
		revenue = append(revenue, models.DateRevenue{Date: date, Revenue: rev})
	}
	return counts, revenue, rows.Err()
}
