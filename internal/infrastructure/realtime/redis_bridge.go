package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel shared by every instance
const DefaultChannel = "facturo:realtime"

// RedisBridge publishes messages on a Redis channel and delivers what it
// receives there to the local hub, so a browser connected to any instance
// gets events produced on any other. Messages from this instance come back
// through the channel too; they are not delivered locally on publish.
type RedisBridge struct {
	client  redis.UniversalClient
	channel string
	local   Fanout
	logger  *zap.Logger
}

// NewRedisBridge creates a bridge between client and local
func NewRedisBridge(client redis.UniversalClient, channel string, local Fanout, logger *zap.Logger) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBridge{client: client, channel: channel, local: local, logger: logger}
}

// Broadcast implements Fanout by publishing on the channel
func (b *RedisBridge) Broadcast(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish realtime message: %w", err)
	}
	return nil
}

// Run relays channel messages to the local hub until ctx is done
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	b.logger.Info("realtime bridge subscribed", zap.String("channel", b.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			b.relay(ctx, m.Payload)
		}
	}
}

func (b *RedisBridge) relay(ctx context.Context, payload string) {
	msg, err := Decode([]byte(payload))
	if err != nil {
		b.logger.Warn("dropping malformed realtime message", zap.Error(err))
		return
	}
	if err := b.local.Broadcast(ctx, msg); err != nil {
		b.logger.Warn("failed to deliver realtime message", zap.Error(err))
	}
}

var _ Fanout = (*RedisBridge)(nil)
