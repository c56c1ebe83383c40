package admin

import (
	"context"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

// Relay turns each inbound DAIDE message into folded JSON and fans it out
// to local spectators (via Hub) and, if configured, to a Redis channel so
// other dashboard replicas relay the same traffic without opening their
// own DAIDE session.
type Relay struct {
	sessionID string
	hub       *Hub
	pubsub    *PubSub // nil disables cross-replica fan-out
}

// NewRelay creates a Relay for one DAIDE session. Pass it as
// daide/client.Config.OnInboundMessage (wrapped in OnInboundMessage).
func NewRelay(sessionID string, hub *Hub, pubsub *PubSub) *Relay {
	return &Relay{sessionID: sessionID, hub: hub, pubsub: pubsub}
}

// OnInboundMessage satisfies the daide/client.Config.OnInboundMessage
// signature directly.
func (r *Relay) OnInboundMessage(m message.Message) {
	folded, err := m.Fold()
	var data any = m.String()
	if err == nil {
		data = foldToJSON(folded)
	}

	event := WSEvent{Type: "message", SessionID: r.sessionID, Data: data}
	r.hub.BroadcastToSession(r.sessionID, event)
	if r.pubsub != nil {
		r.pubsub.Publish(context.Background(), r.sessionID, event)
	}
}

// foldToJSON recursively converts a message.List (whose elements are
// token.Token, string, int or nested List) into plain JSON-safe values:
// named tokens render as their acronym string.
func foldToJSON(v any) any {
	switch x := v.(type) {
	case message.List:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = foldToJSON(e)
		}
		return out
	case token.Token:
		return x.String()
	default:
		return x
	}
}
