package strategy

import (
	"testing"

	"github.com/freeeve/daide-client/daide/board"
	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

func tok(t *testing.T, name string) token.Token {
	t.Helper()
	tk, ok := token.ByName(name)
	if !ok {
		t.Fatalf("token %q not found", name)
	}
	return tk
}

func prov(t *testing.T, acronym string) token.Token {
	t.Helper()
	tk, ok := token.ByProvince(acronym)
	if !ok {
		t.Fatalf("province %q not found", acronym)
	}
	return tk
}

// newTestBoard builds a minimal ENG-only four-province map: home centers
// LON and EDI, armies reach YOR, fleets reach NTH.
func newTestBoard(t *testing.T) (*board.Gameboard, token.Token) {
	t.Helper()
	BRA, KET := token.BRA, token.KET
	mdf := tok(t, "MDF")
	eng := tok(t, "ENG")
	amy, flt := tok(t, "AMY"), tok(t, "FLT")
	lon, edi, yor, nth := prov(t, "LON"), prov(t, "EDI"), prov(t, "YOR"), prov(t, "NTH")

	m, err := message.Build(
		mdf,
		BRA, eng, KET,
		BRA, BRA, BRA, eng, lon, edi, KET, KET, BRA, KET, KET,
		BRA,
		BRA, lon, BRA, amy, yor, KET, BRA, flt, nth, KET, KET,
		BRA, edi, BRA, amy, lon, yor, KET, BRA, flt, nth, KET, KET,
		BRA, yor, BRA, amy, lon, edi, KET, BRA, flt, nth, KET, KET,
		BRA, nth, BRA, flt, lon, edi, yor, KET, KET,
		KET,
	)
	if err != nil {
		t.Fatalf("build MDF: %v", err)
	}
	g, err := board.NewFromMDF(eng, m)
	if err != nil {
		t.Fatalf("NewFromMDF: %v", err)
	}
	return g, eng
}

func buildNOW(t *testing.T, season string, year int, units ...message.Message) message.Message {
	t.Helper()
	BRA, KET := token.BRA, token.KET
	parts := []any{tok(t, "NOW"), BRA, tok(t, season), year, KET}
	for _, u := range units {
		parts = append(parts, u)
	}
	m, err := message.Build(parts...)
	if err != nil {
		t.Fatalf("build NOW: %v", err)
	}
	return m
}

func buildSCOForTest(t *testing.T, power token.Token, provinces ...string) message.Message {
	t.Helper()
	BRA, KET := token.BRA, token.KET
	parts := []any{tok(t, "SCO"), BRA, power}
	for _, p := range provinces {
		parts = append(parts, prov(t, p))
	}
	parts = append(parts, KET)
	m, err := message.Build(parts...)
	if err != nil {
		t.Fatalf("build SCO: %v", err)
	}
	return m
}

func unitAt(t *testing.T, power token.Token, unitType string, provAcr string) message.Message {
	t.Helper()
	BRA, KET := token.BRA, token.KET
	m, err := message.Build(BRA, power, tok(t, unitType), prov(t, provAcr), KET)
	if err != nil {
		t.Fatalf("build unit: %v", err)
	}
	return m
}
