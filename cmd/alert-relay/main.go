package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rut304/Matchups-sub005/internal/config"
	"github.com/Rut304/Matchups-sub005/internal/consumer"
	"github.com/Rut304/Matchups-sub005/internal/dedup"
	"github.com/Rut304/Matchups-sub005/internal/notifier"
	"github.com/Rut304/Matchups-sub005/internal/ratelimit"
	"github.com/Rut304/Matchups-sub005/pkg/models"
)

func main() {
	fmt.Println("=== Alert Relay v0 ===")

	config.LoadDotEnv()
	cfg := loadConfig()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	features, err := config.LoadFeatures(cfg.FeaturesPath)
	if err != nil {
		fmt.Printf("❌ Failed to load feature config: %v\n", err)
		os.Exit(1)
	}

	streamConsumer := consumer.NewStreamConsumer(redisClient, cfg.ConsumerID, cfg.ConsumerGroup)
	deduper := dedup.NewDeduplicator(redisClient, cfg.DedupTTLMinutes)
	bucket := ratelimit.NewTokenBucket(redisClient, cfg.MaxAlertsPerMinute)
	slack := notifier.NewSlackNotifier(cfg.SlackWebhookURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan struct{})
	go features.Watch(stop, 30*time.Second)
	defer close(stop)

	if cfg.SlackWebhookURL != "" {
		if err := slack.SendStartupNotification(ctx); err != nil {
			fmt.Printf("⚠ Startup notification failed: %v\n", err)
		}
	}

	messages, errors := streamConsumer.ConsumeStream(ctx, cfg.StreamKey)

	go func() {
		fmt.Printf("✓ Alert Relay started\n")
		fmt.Printf("  Stream: %s\n", cfg.StreamKey)
		fmt.Printf("  Consumer Group: %s\n", cfg.ConsumerGroup)

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errors:
				if !ok {
					return
				}
				fmt.Printf("❌ Consumer error: %v\n", err)
			case msg, ok := <-messages:
				if !ok {
					return
				}
				relayAlert(ctx, cfg, features, deduper, bucket, slack, msg.Alert)
				if err := streamConsumer.AckMessage(ctx, msg.StreamKey, msg.ID); err != nil {
					fmt.Printf("❌ Failed to ack message %s: %v\n", msg.ID, err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n✓ Shutting down gracefully...")
	cancel()
	time.Sleep(2 * time.Second)
	fmt.Println("✓ Alert Relay stopped")
}

// relayAlert decides whether one consumed alert reaches the notification
// channel. Alerts are already persisted upstream; suppression here only
// affects outbound notifications.
func relayAlert(ctx context.Context, cfg Config, features *config.Features, deduper *dedup.Deduplicator, bucket *ratelimit.TokenBucket, slack *notifier.SlackNotifier, alert models.EdgeAlert) {
	if !features.Notify(alert.Type) {
		return
	}
	if !alert.Severity.AtLeast(cfg.MinSeverity) {
		return
	}
	if !alert.Active(time.Now()) {
		return
	}

	fresh, err := deduper.ShouldNotify(ctx, alert)
	if err != nil {
		fmt.Printf("❌ Dedup check failed for %s: %v\n", alert.ID, err)
		return
	}
	if !fresh {
		return
	}

	allowed, err := bucket.AllowAlert(ctx)
	if err != nil {
		fmt.Printf("❌ Rate limit check failed: %v\n", err)
		return
	}
	if !allowed {
		fmt.Printf("⚠ Rate limited, dropping notification for %s\n", alert.ID)
		return
	}

	if cfg.SlackWebhookURL == "" {
		fmt.Printf("[Relay] %s %s: %s\n", alert.Severity, alert.Type, alert.Title)
		return
	}

	if err := slack.SendAlert(ctx, alert); err != nil {
		fmt.Printf("❌ Slack notification failed for %s: %v\n", alert.ID, err)
	}
}

type Config struct {
	RedisAddr          string
	RedisPassword      string
	FeaturesPath       string
	StreamKey          string
	ConsumerGroup      string
	ConsumerID         string
	SlackWebhookURL    string
	MinSeverity        models.Severity
	DedupTTLMinutes    int
	MaxAlertsPerMinute int
}

func loadConfig() Config {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "alert-relay"
	}

	return Config{
		RedisAddr:          config.GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		FeaturesPath:       config.GetEnv("FEATURES_PATH", "features.yaml"),
		StreamKey:          config.GetEnv("ALERT_STREAM", "alerts.detected"),
		ConsumerGroup:      config.GetEnv("ALERT_CONSUMER_GROUP", "alert-relay-group"),
		ConsumerID:         config.GetEnv("ALERT_CONSUMER_ID", hostname),
		SlackWebhookURL:    config.GetEnv("SLACK_WEBHOOK_URL", ""),
		MinSeverity:        models.Severity(config.GetEnv("MIN_SEVERITY", "minor")),
		DedupTTLMinutes:    config.GetEnvInt("DEDUP_TTL_MINUTES", 30),
		MaxAlertsPerMinute: config.GetEnvInt("MAX_ALERTS_PER_MINUTE", 10),
	}
}
