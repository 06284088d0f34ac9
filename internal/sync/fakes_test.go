package sync

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
)

type entityKey struct {
	tenant uuid.UUID
	id     int64
}

type customerRow struct {
	localID int64
	data    models.Customer
}

type orderRow struct {
	data       models.Order
	customerID *int64
}

// fakeStore mimics the conflict-resolution semantics of the Postgres layer:
// DO NOTHING for overwrite=false, DO UPDATE for overwrite=true, and
// EnsureCustomer returning the local id either way.
type fakeStore struct {
	customers map[entityKey]*customerRow
	products  map[entityKey]models.Product
	orders    map[entityKey]*orderRow
	events    []string
	nextLocal int64
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[entityKey]*customerRow),
		products:  make(map[entityKey]models.Product),
		orders:    make(map[entityKey]*orderRow),
	}
}

func (f *fakeStore) UpsertCustomer(_ context.Context, tenantID uuid.UUID, c models.Customer, overwrite bool) error {
	if f.failWith != nil {
		return f.failWith
	}
	k := entityKey{tenantID, c.ID}
	row, exists := f.customers[k]
	if !exists {
		f.nextLocal++
		f.customers[k] = &customerRow{localID: f.nextLocal, data: c}
		return nil
	}
	if overwrite {
		row.data.Email = c.Email
		row.data.FirstName = c.FirstName
		row.data.LastName = c.LastName
		row.data.UpdatedAt = c.UpdatedAt
	}
	return nil
}

func (f *fakeStore) EnsureCustomer(_ context.Context, tenantID uuid.UUID, c models.Customer) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	k := entityKey{tenantID, c.ID}
	if row, exists := f.customers[k]; exists {
		return row.localID, nil
	}
	f.nextLocal++
	f.customers[k] = &customerRow{localID: f.nextLocal, data: c}
	return f.nextLocal, nil
}

func (f *fakeStore) CustomerIDByShopifyID(_ context.Context, tenantID uuid.UUID, shopifyCustomerID int64) (*int64, error) {
	if row, exists := f.customers[entityKey{tenantID, shopifyCustomerID}]; exists {
		id := row.localID
		return &id, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertProduct(_ context.Context, tenantID uuid.UUID, p models.Product, overwrite bool) error {
	if f.failWith != nil {
		return f.failWith
	}
	k := entityKey{tenantID, p.ID}
	if _, exists := f.products[k]; exists && !overwrite {
		return nil
	}
	f.products[k] = p
	return nil
}

func (f *fakeStore) UpsertOrder(_ context.Context, tenantID uuid.UUID, o models.Order, customerID *int64, overwrite bool) error {
	if f.failWith != nil {
		return f.failWith
	}
	k := entityKey{tenantID, o.ID}
	if _, exists := f.orders[k]; exists && !overwrite {
		return nil
	}
	f.orders[k] = &orderRow{data: o, customerID: customerID}
	return nil
}

func (f *fakeStore) AppendEvent(_ context.Context, tenantID uuid.UUID, eventType string, _ []byte) error {
	f.events = append(f.events, tenantID.String()+"|"+eventType)
	return nil
}

// fakeDirectory implements TenantResolver and Directory over a fixed map.
type fakeDirectory struct {
	tenants map[string]models.Tenant
	lookups int
}

func (d *fakeDirectory) TenantIDByDomain(_ context.Context, domain string) (uuid.UUID, error) {
	d.lookups++
	t, ok := d.tenants[domain]
	if !ok {
		return uuid.Nil, store.ErrTenantNotFound
	}
	return t.ID, nil
}

func (d *fakeDirectory) TenantByDomain(_ context.Context, domain string) (models.Tenant, error) {
	t, ok := d.tenants[domain]
	if !ok {
		return models.Tenant{}, store.ErrTenantNotFound
	}
	return t, nil
}

func (d *fakeDirectory) AccessTokenByDomain(_ context.Context, domain string) (models.Tenant, error) {
	t, err := d.TenantByDomain(context.Background(), domain)
	if err != nil {
		return models.Tenant{}, err
	}
	if t.AccessToken == "" {
		return models.Tenant{}, store.ErrNoAccessToken
	}
	return t, nil
}

// fakeAdmin serves canned Shopify API responses. Order pages are addressed
// "page-1", "page-2", ... with "" meaning the first page.
type fakeAdmin struct {
	customers []models.Customer
	products  []models.Product
	pages     [][]models.Order

	pageRequests []string
	webhooks     []models.Webhook
	created      []models.Webhook
	deletedIDs   []int64
}

func (a *fakeAdmin) Customers(context.Context, string, string) ([]models.Customer, error) {
	return a.customers, nil
}

func (a *fakeAdmin) Products(context.Context, string, string) ([]models.Product, error) {
	return a.products, nil
}

func (a *fakeAdmin) OrdersPage(_ context.Context, _, _, pageURL string) ([]models.Order, string, error) {
	a.pageRequests = append(a.pageRequests, pageURL)
	idx := 0
	if pageURL != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(pageURL, "page-"))
		if err != nil {
			return nil, "", fmt.Errorf("bad page url %q", pageURL)
		}
		idx = n - 1
	}
	next := ""
	if idx+1 < len(a.pages) {
		next = fmt.Sprintf("page-%d", idx+2)
	}
	return a.pages[idx], next, nil
}

func (a *fakeAdmin) ListWebhooks(_ context.Context, _, _, topic string) ([]models.Webhook, error) {
	if topic == "" {
		return a.webhooks, nil
	}
	var out []models.Webhook
	for _, w := range a.webhooks {
		if w.Topic == topic {
			out = append(out, w)
		}
	}
	return out, nil
}

func (a *fakeAdmin) CreateWebhook(_ context.Context, _, _, topic, address string) error {
	a.created = append(a.created, models.Webhook{Topic: topic, Address: address, Format: "json"})
	return nil
}

func (a *fakeAdmin) DeleteWebhook(_ context.Context, _, _ string, id int64) error {
	a.deletedIDs = append(a.deletedIDs, id)
	return nil
}
