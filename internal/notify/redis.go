package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBridge fans notifications out across processes via Redis pub/sub.
// Published events go to the channel; a background subscriber forwards
// messages from other processes into the local hub so SSE clients attached
// to any instance see every event.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger
	cancel  context.CancelFunc
}

// NewRedisBridge starts the subscriber loop and returns the bridge.
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, logger *zap.Logger) *RedisBridge {
	ctx, cancel := context.WithCancel(context.Background())
	bridge := &RedisBridge{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger,
		cancel:  cancel,
	}
	go bridge.forward(ctx)
	return bridge
}

// Publish sends the event over Redis. Failures are logged and otherwise
// ignored; notification delivery is best effort.
func (b *RedisBridge) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal notification", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Warn("publish notification to redis", zap.Error(err))
		// Local clients still get the event even when Redis is down.
		b.hub.Publish(ctx, event)
	}
}

// Close stops the forwarding loop.
func (b *RedisBridge) Close() {
	b.cancel()
}

func (b *RedisBridge) forward(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("decode notification", zap.Error(err))
				continue
			}
			b.hub.Publish(ctx, event)
		}
	}
}
