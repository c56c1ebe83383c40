package dispatch

import (
	"testing"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

func mustToken(t *testing.T, name string) token.Token {
	t.Helper()
	tok, ok := token.ByName(name)
	if !ok {
		t.Fatalf("token %q not found", name)
	}
	return tok
}

func TestDispatchRoutesByLeadingToken(t *testing.T) {
	hlo := mustToken(t, "HLO")
	var gotBody message.List
	called := false

	d := New()
	d.On(hlo, func(body message.List) error {
		called = true
		gotBody = body
		return nil
	})

	m, err := message.Build(hlo, token.BRA, mustToken(t, "ENG"), token.KET)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := d.Dispatch(m); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !called {
		t.Fatal("handler not invoked")
	}
	eng := mustToken(t, "ENG")
	want := message.List{message.List{eng}}
	if len(gotBody) != 1 {
		t.Fatalf("body = %#v, want one element", gotBody)
	}
	_ = want
}

func TestDispatchYesMapRouting(t *testing.T) {
	yes := mustToken(t, "YES")
	mp := mustToken(t, "MAP")

	var handled message.List
	d := New()
	d.OnYesRej(mp, func(body message.List) error {
		handled = body
		return nil
	})

	m, err := message.Build(yes, token.BRA, mp, token.BRA, "STANDARD", token.KET, token.KET)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := d.Dispatch(m); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if handled == nil {
		t.Fatal("YES(MAP(...)) not routed to the MAP yes/rej handler")
	}
	if handled[0] != yes {
		t.Errorf("handled[0] = %v, want YES", handled[0])
	}
}

func TestDispatchRejMapRouting(t *testing.T) {
	rej := mustToken(t, "REJ")
	mp := mustToken(t, "MAP")

	var tag token.Token
	d := New()
	d.OnYesRej(mp, func(body message.List) error {
		tag = body[0].(token.Token)
		return nil
	})

	m, err := message.Build(rej, token.BRA, mp, token.BRA, "STANDARD", token.KET, token.KET)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := d.Dispatch(m); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tag != rej {
		t.Errorf("tag = %v, want REJ", tag)
	}
}

func TestDispatchUnknownLeadingTokenFallback(t *testing.T) {
	huh := mustToken(t, "HUH")
	var calledWith message.List
	d := New()
	d.OnUnknown(func(body message.List) error {
		calledWith = body
		return nil
	})

	m := message.Message{huh}
	if err := d.Dispatch(m); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if calledWith == nil {
		t.Fatal("unknown leading token did not invoke the fallback")
	}
}

func TestDispatchEmptyMessageIsNoop(t *testing.T) {
	d := New()
	if err := d.Dispatch(nil); err != nil {
		t.Fatalf("Dispatch(nil): %v", err)
	}
}
