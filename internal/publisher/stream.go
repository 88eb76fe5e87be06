package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// StreamPublisher publishes edge alerts to Redis Streams.
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// Publish writes an alert to the sport-specific stream and the global
// alerts.detected stream.
func (p *StreamPublisher) Publish(ctx context.Context, alert models.EdgeAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	streams := []string{
		fmt.Sprintf("alerts.detected.%s", alert.Sport),
		"alerts.detected",
	}

	for _, streamKey := range streams {
		_, err = p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: streamKey,
			Values: map[string]interface{}{
				"alert": string(payload),
			},
		}).Result()
		if err != nil {
			return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
		}
	}

	return nil
}

// PublishAll publishes a batch of alerts.
func (p *StreamPublisher) PublishAll(ctx context.Context, alerts []models.EdgeAlert) error {
	for _, alert := range alerts {
		if err := p.Publish(ctx, alert); err != nil {
			return err
		}
	}
	return nil
}
