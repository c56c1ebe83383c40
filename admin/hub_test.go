package admin

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestConn(userID string) *WSConn {
	return &WSConn{
		conn:   nil, // no real connection for hub tests
		userID: userID,
		send:   make(chan []byte, 256),
	}
}

func newTestHub() *Hub {
	return NewHub(zerolog.Nop())
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := newTestHub()
	c := newTestConn("user-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := newTestHub()
	c := newTestConn("user-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Subscribe(c, "session-1")
	if hub.SessionSubscriberCount("session-1") != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.SessionSubscriberCount("session-1"))
	}

	hub.Unsubscribe(c, "session-1")
	if hub.SessionSubscriberCount("session-1") != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.SessionSubscriberCount("session-1"))
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := newTestHub()
	c1 := newTestConn("user-1")
	c2 := newTestConn("user-2")
	c3 := newTestConn("user-3") // not subscribed

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.Subscribe(c1, "session-1")
	hub.Subscribe(c2, "session-1")

	hub.BroadcastToSession("session-1", WSEvent{
		Type:      "message",
		SessionID: "session-1",
		Data:      map[string]string{"season": "spring"},
	})

	select {
	case msg := <-c1.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != "message" {
			t.Errorf("expected message, got %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received broadcast")
	default:
	}
}

func TestHubUnregisterCleansUpSubscriptions(t *testing.T) {
	hub := newTestHub()
	c := newTestConn("user-1")
	hub.Register(c)
	hub.Subscribe(c, "session-1")
	hub.Subscribe(c, "session-2")

	hub.Unregister(c)

	if hub.SessionSubscriberCount("session-1") != 0 {
		t.Errorf("expected 0 subscribers for session-1 after unregister")
	}
	if hub.SessionSubscriberCount("session-2") != 0 {
		t.Errorf("expected 0 subscribers for session-2 after unregister")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := newTestHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestConn("user")
			hub.Register(c)
			hub.Subscribe(c, "session-1")
			hub.BroadcastToSession("session-1", WSEvent{Type: "test", SessionID: "session-1"})
			hub.Unsubscribe(c, "session-1")
			hub.Unregister(c)
		}()
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastDropsOnFullBuffer(t *testing.T) {
	hub := newTestHub()
	c := &WSConn{userID: "user-1", send: make(chan []byte, 1)}
	hub.Register(c)
	defer hub.Unregister(c)
	hub.Subscribe(c, "session-1")

	// Fill the buffer, then broadcast again: the second send must be
	// dropped instead of blocking.
	hub.BroadcastToSession("session-1", WSEvent{Type: "first", SessionID: "session-1"})
	done := make(chan struct{})
	go func() {
		hub.BroadcastToSession("session-1", WSEvent{Type: "second", SessionID: "session-1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastToSession blocked on a full buffer instead of dropping")
	}
}
