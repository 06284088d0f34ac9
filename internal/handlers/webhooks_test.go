package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/merchantpulse/shopify-sync-service/internal/models"
	"github.com/merchantpulse/shopify-sync-service/internal/store"
	"github.com/merchantpulse/shopify-sync-service/internal/sync"
)

type recordingStore struct {
	customers int
	products  int
	orders    int
	events    int
}

func (r *recordingStore) UpsertCustomer(context.Context, uuid.UUID, models.Customer, bool) error {
	r.customers++
	return nil
}

func (r *recordingStore) UpsertProduct(context.Context, uuid.UUID, models.Product, bool) error {
	r.products++
	return nil
}

func (r *recordingStore) UpsertOrder(context.Context, uuid.UUID, models.Order, *int64, bool) error {
	r.orders++
	return nil
}

func (r *recordingStore) EnsureCustomer(context.Context, uuid.UUID, models.Customer) (int64, error) {
	r.customers++
	return 1, nil
}

func (r *recordingStore) CustomerIDByShopifyID(context.Context, uuid.UUID, int64) (*int64, error) {
	return nil, nil
}

func (r *recordingStore) AppendEvent(context.Context, uuid.UUID, string, []byte) error {
	r.events++
	return nil
}

type staticResolver struct{ domain string }

func (s staticResolver) TenantIDByDomain(_ context.Context, domain string) (uuid.UUID, error) {
	if domain != s.domain {
		return uuid.Nil, store.ErrTenantNotFound
	}
	return uuid.MustParse("11111111-1111-1111-1111-111111111111"), nil
}

func webhookRouter(st *recordingStore, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := sync.NewEngine(st, staticResolver{domain: "shop1.test"}, logger, nil)

	r := gin.New()
	RegisterWebhookRoutes(r, engine, secret, logger, nil)
	return r
}

func deliver(r *gin.Engine, topic, shop, signature string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/"+topic, bytes.NewReader(body))
	if shop != "" {
		req.Header.Set("X-Shopify-Shop-Domain", shop)
	}
	if signature != "" {
		req.Header.Set("X-Shopify-Hmac-Sha256", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookDelivery(t *testing.T) {
	const secret = "whsec"
	body := []byte(`{"id":77,"email":"a@x.com"}`)

	t.Run("valid delivery is processed", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, secret)

		w := deliver(r, "customers/create", "shop1.test", signBody(body, secret), body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if st.customers != 1 {
			t.Errorf("customer upserts = %d, want 1", st.customers)
		}
		if st.events != 1 {
			t.Errorf("audit events = %d, want 1", st.events)
		}
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, secret)

		w := deliver(r, "customers/create", "shop1.test", signBody(body, "wrong"), body)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if st.customers != 0 {
			t.Error("rejected delivery must not reach the engine")
		}
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, secret)

		if w := deliver(r, "orders/create", "shop1.test", "", body); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("unknown tenant is still acknowledged", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, secret)

		// A 4xx/5xx would make Shopify retry forever and finally drop the
		// subscription; an unresolvable tenant must look like success.
		w := deliver(r, "customers/create", "nobody.test", signBody(body, secret), body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if st.customers != 0 {
			t.Error("nothing should be written for an unknown tenant")
		}
	})

	t.Run("missing shop header is still acknowledged", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, secret)

		if w := deliver(r, "customers/create", "", signBody(body, secret), body); w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("unconfigured secret skips verification", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, "")

		if w := deliver(r, "customers/create", "shop1.test", "", body); w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if st.customers != 1 {
			t.Errorf("customer upserts = %d, want 1", st.customers)
		}
	})

	t.Run("all eight topics are routed", func(t *testing.T) {
		st := &recordingStore{}
		r := webhookRouter(st, "")

		payloads := map[sync.Topic][]byte{
			sync.TopicOrdersCreate:    []byte(`{"id":1,"total_price":"1.00"}`),
			sync.TopicOrdersUpdated:   []byte(`{"id":1,"total_price":"2.00"}`),
			sync.TopicOrdersPaid:      []byte(`{"id":1,"total_price":"2.00"}`),
			sync.TopicOrdersCancelled: []byte(`{"id":1,"total_price":"0.00"}`),
			sync.TopicCustomersCreate: []byte(`{"id":2}`),
			sync.TopicCustomersUpdate: []byte(`{"id":2}`),
			sync.TopicProductsCreate:  []byte(`{"id":3}`),
			sync.TopicProductsUpdate:  []byte(`{"id":3}`),
		}
		for _, topic := range sync.AllTopics {
			if w := deliver(r, string(topic), "shop1.test", "", payloads[topic]); w.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want 200", topic, w.Code)
			}
		}
		if st.orders != 4 || st.customers != 2 || st.products != 2 {
			t.Errorf("routing counts = orders %d customers %d products %d", st.orders, st.customers, st.products)
		}
	})
}
