package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// Deduplicator suppresses repeat notifications for the same event and alert
// type within a TTL window, backed by Redis so it holds across restarts and
// relay instances.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttlMinutes int) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// ShouldNotify returns true if this alert hasn't been notified recently.
// The first caller for a key wins and the key is armed with the TTL.
func (d *Deduplicator) ShouldNotify(ctx context.Context, alert models.EdgeAlert) (bool, error) {
	dedupKey := d.dedupKey(alert)

	// SET NX is the check and the claim in one round trip.
	set, err := d.client.SetNX(ctx, dedupKey, "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}

	return set, nil
}

// dedupKey is deterministic per event and alert type: a steam alert and an
// RLM alert on the same event notify independently.
func (d *Deduplicator) dedupKey(alert models.EdgeAlert) string {
	return fmt.Sprintf("alert:dedup:%s:%s", alert.EventID, alert.Type)
}

// Clear removes a dedup entry (for testing)
func (d *Deduplicator) Clear(ctx context.Context, alert models.EdgeAlert) error {
	return d.client.Del(ctx, d.dedupKey(alert)).Err()
}
