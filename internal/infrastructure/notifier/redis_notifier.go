// Package notifier publishes affinity events to the notification system
// over Redis pub/sub. The messaging service consumes the channel and owns
// delivery to end users; this side is fire-and-forget.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/latidoapp/latido-backend/internal/domain"
)

type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, event domain.AffinityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal affinity event: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish affinity event: %w", err)
	}
	return nil
}
