// Package redis fans notifications out over Redis pub/sub so other services
// (a Discord bot, a dashboard) can subscribe to room activity.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
)

// Sink publishes notifications as JSON
type Sink struct {
	client *redis.Client
	cfg    Config
}

// Ensure Sink implements notify.Sink
var _ notify.Sink = (*Sink)(nil)

// New connects to Redis and creates a Sink
func New(cfg Config) (*Sink, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Sink with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Sink {
	if cfg.Channel == "" {
		cfg.Channel = DefaultConfig().Channel
	}
	return &Sink{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Sink) Close() error {
	return s.client.Close()
}

// Name returns "redis"
func (s *Sink) Name() string { return "redis" }

// Channel returns the full pub/sub channel name
func (s *Sink) Channel() string {
	return channelKey(s.cfg.Channel)
}

// Send publishes n and, when enabled, pushes it onto the recent feed
func (s *Sink) Send(ctx context.Context, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Publish(ctx, channelKey(s.cfg.Channel), data)
	if s.cfg.RecentLimit > 0 {
		key := recentKey(s.cfg.Channel)
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(s.cfg.RecentLimit-1))
		if s.cfg.RecentTTL > 0 {
			pipe.Expire(ctx, key, s.cfg.RecentTTL)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
