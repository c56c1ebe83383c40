package admin

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

func TestRelayBroadcastsFoldedJSON(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := newTestConn("spectator")
	hub.Register(c)
	defer hub.Unregister(c)
	hub.Subscribe(c, "sess-1")

	relay := NewRelay("sess-1", hub, nil)

	bra, ket := token.BRA, token.KET
	hlo, _ := token.ByName("HLO")
	eng, _ := token.ByName("ENG")
	m, err := message.Build(hlo, bra, eng, 123, ket)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	relay.OnInboundMessage(m)

	select {
	case <-c.send:
	case <-time.After(time.Second):
		t.Fatal("relay did not broadcast the inbound message")
	}
}

func TestFoldToJSONConvertsTokensToStrings(t *testing.T) {
	eng, _ := token.ByName("ENG")
	list := message.List{eng, 42, "hi", message.List{eng}}

	out, ok := foldToJSON(list).([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", foldToJSON(list))
	}
	if out[0] != "ENG" {
		t.Errorf("expected token to render as its acronym, got %v", out[0])
	}
	if out[1] != 42 {
		t.Errorf("expected int to pass through, got %v", out[1])
	}
	if out[2] != "hi" {
		t.Errorf("expected string to pass through, got %v", out[2])
	}
	nested, ok := out[3].([]any)
	if !ok || len(nested) != 1 || nested[0] != "ENG" {
		t.Errorf("expected nested list to fold recursively, got %v", out[3])
	}
}
