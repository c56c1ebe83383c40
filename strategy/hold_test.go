package strategy

import (
	"testing"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

func TestHoldGeneratesHoldForEveryUnit(t *testing.T) {
	g, eng := newTestBoard(t)
	now := buildNOW(t, "SPR", 1901, unitAt(t, eng, "FLT", "LON"), unitAt(t, eng, "AMY", "EDI"))
	if err := g.ProcessNOW(now); err != nil {
		t.Fatalf("ProcessNOW: %v", err)
	}

	s := Hold{}
	if err := s.GenerateMovementOrders(g); err != nil {
		t.Fatalf("GenerateMovementOrders: %v", err)
	}
	if g.MissingOrders() {
		t.Error("Hold left a unit unordered")
	}
}

// TestHoldDisbandsDislodgedWithNoRetreatOptions mirrors a unit dislodged
// with an empty MRT options list: no legal retreat, so Hold disbands it.
func TestHoldDisbandsDislodgedWithNoRetreatOptions(t *testing.T) {
	g, eng := newTestBoard(t)
	BRA, KET := token.BRA, token.KET
	nth := prov(t, "NTH")
	now, err := message.Build(
		tok(t, "NOW"), BRA, tok(t, "SUM"), 1901, KET,
		BRA, eng, tok(t, "FLT"), nth, tok(t, "MRT"), KET,
	)
	if err != nil {
		t.Fatalf("build NOW: %v", err)
	}
	if err := g.ProcessNOW(now); err != nil {
		t.Fatalf("ProcessNOW: %v", err)
	}

	s := Hold{}
	if err := s.GenerateRetreatOrders(g); err != nil {
		t.Fatalf("GenerateRetreatOrders: %v", err)
	}
	orders := g.GetOrders()
	if len(orders) == 0 {
		t.Fatal("expected a disband order to be issued")
	}
}
