package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/dayscene/internal/events"
	"github.com/redis/go-redis/v9"
)

// NewEventBroadcaster connects to EVENTS_REDIS_URL. It returns nil without
// error when events are disabled.
func NewEventBroadcaster(ctx context.Context, cfg *Config, logger *slog.Logger) (*events.Broadcaster, error) {
	if cfg.EventsRedisURL == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.EventsRedisURL})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to events redis: %w", err)
	}
	return events.NewBroadcaster(client, logger), nil
}
