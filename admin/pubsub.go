package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// PubSub fans broadcast events out across dashboard replicas over Redis,
// so a replica that never opened the underlying DAIDE session still
// relays its traffic to spectators connected to it.
type PubSub struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewPubSub creates a PubSub client from a connection URL. Prefer
// NewPubSubFromClient when the caller already holds a connected client, to
// avoid opening a second connection to the same Redis instance.
func NewPubSub(redisURL string, log zerolog.Logger) (*PubSub, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("admin: parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("admin: redis ping: %w", err)
	}
	return &PubSub{rdb: rdb, log: log}, nil
}

// NewPubSubFromClient wraps an already-connected redis.Client, for callers
// that dialed Redis themselves to check availability before wiring the
// admin surface.
func NewPubSubFromClient(rdb *redis.Client, log zerolog.Logger) *PubSub {
	return &PubSub{rdb: rdb, log: log}
}

// Close closes the underlying Redis connection.
func (p *PubSub) Close() error {
	return p.rdb.Close()
}

func channelName(sessionID string) string {
	return "daide-fleet:session:" + sessionID
}

// Publish pushes an event to the session's Redis channel.
func (p *PubSub) Publish(ctx context.Context, sessionID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("sessionId", sessionID).Msg("failed to marshal event for pubsub")
		return
	}
	if err := p.rdb.Publish(ctx, channelName(sessionID), data).Err(); err != nil {
		p.log.Error().Err(err).Str("sessionId", sessionID).Msg("failed to publish event")
	}
}

// Subscribe relays every event published for sessionID into hub's local
// spectators, until ctx is cancelled. Run it in its own goroutine per
// subscribed session.
func (p *PubSub) Subscribe(ctx context.Context, sessionID string, hub *Hub) {
	sub := p.rdb.Subscribe(ctx, channelName(sessionID))
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
			var event WSEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				p.log.Warn().Err(err).Str("sessionId", sessionID).Msg("dropping malformed pubsub payload")
				continue
			}
			hub.BroadcastToSession(sessionID, event)
		}
	}
}
