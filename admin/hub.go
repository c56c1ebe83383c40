// Package admin is the spectator/fleet surface: an HTTP+WebSocket relay
// that broadcasts decoded DAIDE traffic to dashboards, JWT/OAuth admin
// auth, a Redis fan-out for multi-replica dashboards, and a Postgres
// session audit log. None of it is reachable from daide/*; it only
// receives copies of already-decoded messages through daide/client's
// Config.OnInboundMessage hook.
package admin

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSEvent is the envelope for every message sent to a spectator.
type WSEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Data      any    `json:"data"`
}

// ClientMessage is the envelope for messages a spectator sends us.
type ClientMessage struct {
	Action    string `json:"action"` // "subscribe" or "unsubscribe"
	SessionID string `json:"session_id"`
}

// WSConn wraps one spectator's WebSocket connection.
type WSConn struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub manages spectator connections and their per-session subscriptions.
// Generalized from the teacher's per-game channel map to per-DAIDE-session
// channels: a fleet may run several client sessions concurrently, each
// identified by the session ID internal/logger mints for it.
type Hub struct {
	log zerolog.Logger

	mu          sync.RWMutex
	connections map[*WSConn]bool
	sessions    map[string]map[*WSConn]bool
}

// NewHub creates a Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:         log,
		connections: make(map[*WSConn]bool),
		sessions:    make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection and all its subscriptions.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	for sessionID, conns := range h.sessions {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.sessions, sessionID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a session's broadcast channel.
func (h *Hub) Subscribe(c *WSConn, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*WSConn]bool)
	}
	h.sessions[sessionID][c] = true
}

// Unsubscribe removes a connection from a session's broadcast channel.
func (h *Hub) Unsubscribe(c *WSConn, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.sessions[sessionID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.sessions, sessionID)
		}
	}
}

// BroadcastToSession sends an event to every connection subscribed to
// sessionID, dropping the send for any spectator whose buffer is full
// rather than blocking the relay on a slow reader.
func (h *Hub) BroadcastToSession(sessionID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("sessionId", sessionID).Msg("failed to marshal spectator event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.sessions[sessionID] {
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("userId", c.userID).Str("sessionId", sessionID).Msg("dropping spectator message, buffer full")
		}
	}
}

// ConnectionCount returns the total number of active spectator connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// SessionSubscriberCount returns how many connections are subscribed to sessionID.
func (h *Hub) SessionSubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
