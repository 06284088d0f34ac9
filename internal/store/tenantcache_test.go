package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type countingResolver struct {
	ids   map[string]uuid.UUID
	calls int
}

func (r *countingResolver) TenantIDByDomain(_ context.Context, domain string) (uuid.UUID, error) {
	r.calls++
	id, ok := r.ids[domain]
	if !ok {
		return uuid.Nil, ErrTenantNotFound
	}
	return id, nil
}

func TestTenantCache(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("second lookup is served from cache", func(t *testing.T) {
		next := &countingResolver{ids: map[string]uuid.UUID{"shop1.test": shopID}}
		cache := NewTenantCache(next, time.Hour, nil)

		for i := 0; i < 3; i++ {
			id, err := cache.TenantIDByDomain(ctx, "shop1.test")
			if err != nil {
				t.Fatalf("lookup %d: %v", i, err)
			}
			if id != shopID {
				t.Fatalf("lookup %d: id = %v, want %v", i, id, shopID)
			}
		}
		if next.calls != 1 {
			t.Errorf("resolver calls = %d, want 1", next.calls)
		}
	})

	t.Run("expired entries hit the resolver again", func(t *testing.T) {
		next := &countingResolver{ids: map[string]uuid.UUID{"shop1.test": shopID}}
		cache := NewTenantCache(next, -time.Second, nil)

		_, _ = cache.TenantIDByDomain(ctx, "shop1.test")
		_, _ = cache.TenantIDByDomain(ctx, "shop1.test")
		if next.calls != 2 {
			t.Errorf("resolver calls = %d, want 2", next.calls)
		}
	})

	t.Run("not-found is never cached", func(t *testing.T) {
		next := &countingResolver{ids: map[string]uuid.UUID{}}
		cache := NewTenantCache(next, time.Hour, nil)

		if _, err := cache.TenantIDByDomain(ctx, "new.test"); err != ErrTenantNotFound {
			t.Fatalf("err = %v, want ErrTenantNotFound", err)
		}

		// The store connects between the two lookups.
		next.ids["new.test"] = shopID
		id, err := cache.TenantIDByDomain(ctx, "new.test")
		if err != nil {
			t.Fatalf("second lookup: %v", err)
		}
		if id != shopID {
			t.Errorf("id = %v, want %v", id, shopID)
		}
	})
}
