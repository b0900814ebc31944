package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel feed events travel on
const DefaultChannel = "learnhub:posts"

// RedisRelay publishes events to a Redis channel and delivers every message
// received on it to the local hub, so all instances see every broadcast.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
	logger  *zap.Logger
}

// NewRedisClient parses url and verifies the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisRelay creates a relay between channel and hub
func NewRedisRelay(client redis.UniversalClient, channel string, hub *Hub, logger *zap.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger,
	}
}

// Publish encodes event as JSON and publishes it on the channel. Local
// delivery happens when the message comes back through Run.
func (r *RedisRelay) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Run subscribes to the channel and forwards messages to the hub until ctx is done.
// ready, when non-nil, is closed once the subscription is confirmed.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe failed: %w", err)
	}
	if ready != nil {
		close(ready)
	}
	r.logger.Info("realtime relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.hub.Broadcast(ctx, []byte(msg.Payload))
		}
	}
}

// PingContext checks the Redis connection
func (r *RedisRelay) PingContext(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
