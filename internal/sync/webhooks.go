package sync

import (
	"context"
	"fmt"
	"strings"
)

// WebhookAddress builds the delivery address for one topic under a base URL.
func WebhookAddress(baseURL string, topic Topic) string {
	return strings.TrimSuffix(baseURL, "/") + "/webhooks/" + string(topic)
}

// RegisterWebhooks subscribes every topic to this service's callback
// addresses. Idempotent: any existing subscription already pointing at our
// address for a topic is deleted first, so re-registration after a base URL
// change never leaves duplicate deliveries. Per-topic failures are logged
// and skipped; only a missing credential fails the whole run.
func (in *Ingestor) RegisterWebhooks(ctx context.Context, shop, baseURL string) error {
	t, err := in.dir.AccessTokenByDomain(ctx, shop)
	if err != nil {
		return err
	}

	for _, topic := range AllTopics {
		address := WebhookAddress(baseURL, topic)

		existing, err := in.shopify.ListWebhooks(ctx, shop, t.AccessToken, string(topic))
		if err != nil {
			in.logger.Error("failed to list webhooks", "shop", shop, "topic", topic, "error", err)
			continue
		}
		for _, w := range existing {
			if w.Address != address {
				continue
			}
			if err := in.shopify.DeleteWebhook(ctx, shop, t.AccessToken, w.ID); err != nil {
				in.logger.Error("failed to delete stale webhook", "shop", shop, "topic", topic, "id", w.ID, "error", err)
			}
		}

		if err := in.shopify.CreateWebhook(ctx, shop, t.AccessToken, string(topic), address); err != nil {
			in.logger.Error("failed to register webhook", "shop", shop, "topic", topic, "error", err)
			continue
		}
		in.logger.Info("registered webhook", "shop", shop, "topic", topic, "address", address)
	}

	return nil
}

// UnregisterWebhooks deletes every subscription on the shop that points at
// this service's base URL.
func (in *Ingestor) UnregisterWebhooks(ctx context.Context, shop, baseURL string) error {
	t, err := in.dir.AccessTokenByDomain(ctx, shop)
	if err != nil {
		return err
	}

	webhooks, err := in.shopify.ListWebhooks(ctx, shop, t.AccessToken, "")
	if err != nil {
		return fmt.Errorf("list webhooks for %s: %w", shop, err)
	}

	for _, w := range webhooks {
		if !strings.HasPrefix(w.Address, strings.TrimSuffix(baseURL, "/")) {
			continue
		}
		if err := in.shopify.DeleteWebhook(ctx, shop, t.AccessToken, w.ID); err != nil {
			in.logger.Error("failed to delete webhook", "shop", shop, "topic", w.Topic, "id", w.ID, "error", err)
			continue
		}
		in.logger.Info("deleted webhook", "shop", shop, "topic", w.Topic)
	}

	return nil
}
