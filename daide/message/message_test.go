package message

import (
	"reflect"
	"testing"

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

func TestPackParseRoundTrip(t *testing.T) {
	yes := mustToken(t, "YES")
	m, err := Build(yes, token.BRA, mustToken(t, "MAP"), "STANDARD", token.KET)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parsed, err := Parse(m.Pack())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(m, parsed) {
		t.Errorf("round-trip mismatch:\n  got  %v\n  want %v", parsed, m)
	}
}

func TestApplyCallSyntax(t *testing.T) {
	nme := mustToken(t, "NME")
	m, err := Message{nme}.Apply("name")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	m, err = m.Apply("1.0")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want, _ := Build(nme, token.BRA, "name", token.KET, token.BRA, "1.0", token.KET)
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Apply chain mismatch:\n  got  %v\n  want %v", m, want)
	}
}

func TestFoldScenarioS2(t *testing.T) {
	yes := mustToken(t, "YES")
	mp := mustToken(t, "MAP")
	m, err := Build(yes, token.BRA, mp, token.BRA, "STANDARD", token.KET, token.KET)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	folded, err := m.Fold()
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	want := List{yes, List{mp, List{"STANDARD"}}}
	if !reflect.DeepEqual(folded, want) {
		t.Errorf("fold mismatch:\n  got  %#v\n  want %#v", folded, want)
	}
}

func TestFoldUnbalancedExtraKet(t *testing.T) {
	m := Message{token.BRA, mustToken(t, "YES"), token.KET, token.KET}
	if _, err := m.Fold(); err == nil {
		t.Fatal("expected unbalanced-parens error for extra KET")
	}
}

func TestFoldUnbalancedExtraBra(t *testing.T) {
	m := Message{token.BRA, token.BRA, mustToken(t, "YES"), token.KET}
	if _, err := m.Fold(); err == nil {
		t.Fatal("expected unbalanced-parens error for extra BRA")
	}
}

func TestFoldFusesTextAndNormalisesIntegers(t *testing.T) {
	m, err := Build(token.BRA, "AB", 42, token.KET)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	folded, err := m.Fold()
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	want := List{List{"AB", 42}}
	if !reflect.DeepEqual(folded, want) {
		t.Errorf("fold mismatch:\n  got  %#v\n  want %#v", folded, want)
	}
}

func TestEmptyMessageParsesEmpty(t *testing.T) {
	m, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if len(m) != 0 {
		t.Errorf("Parse(nil) = %v, want empty", m)
	}
}

func TestHoldOrderPackingS3(t *testing.T) {
	eng := mustToken(t, "ENG")
	flt := mustToken(t, "FLT")
	lon, ok := token.ByProvince("LON")
	if !ok {
		t.Fatal("province LON not found")
	}
	hld := mustToken(t, "HLD")

	unit, err := Build(eng, flt, lon)
	if err != nil {
		t.Fatalf("Build unit: %v", err)
	}
	order := unit.Wrap().Concat(Of(hld))

	want := []byte{
		0x40, 0x00, 0x40, 0x00, 0x41, 0x01, 0x42, 0x01,
		0x55, 0x3A, 0x40, 0x01, 0x43, 0x22,
	}
	got := order.Wrap().Pack()
	if !reflect.DeepEqual(got, append(want, 0x40, 0x01)) {
		t.Errorf("HoldOrder packing = % X, want % X", got, append(want, 0x40, 0x01))
	}
}
