package token

import "testing"

func TestCategoryForByte(t *testing.T) {
	cases := []struct {
		hi   byte
		want Category
	}{
		{0x00, CatInteger}, {0x3F, CatInteger},
		{0x40, CatBracket},
		{0x41, CatPower}, {0x42, CatUnitType}, {0x43, CatOrder},
		{0x44, CatOrderNote}, {0x45, CatResult}, {0x46, CatCoast},
		{0x47, CatPhase}, {0x48, CatCommand}, {0x49, CatParameter},
		{0x4A, CatPress}, {0x4B, CatText},
		{0x50, CatProvince}, {0x57, CatProvince},
		{0x58, CatReserved}, {0xFF, CatReserved},
	}
	for _, c := range cases {
		if got := categoryForByte(c.hi); got != c.want {
			t.Errorf("categoryForByte(%#02x) = %s, want %s", c.hi, got, c.want)
		}
	}
}

func TestIntegerConstruction(t *testing.T) {
	if _, err := Integer(0); err != nil {
		t.Fatalf("Integer(0): %v", err)
	}
	if _, err := Integer(16383); err != nil {
		t.Fatalf("Integer(16383): %v", err)
	}
	if _, err := Integer(16384); err == nil {
		t.Fatal("Integer(16384) should be rejected at construction")
	}
	if _, err := Integer(-1); err == nil {
		t.Fatal("Integer(-1) should be rejected at construction")
	}
}

func TestIntegerCategory(t *testing.T) {
	for i := 0; i < (1 << 14); i += 997 {
		tok, err := Integer(i)
		if err != nil {
			t.Fatalf("Integer(%d): %v", i, err)
		}
		if tok.Category() != CatInteger {
			t.Errorf("Integer(%d).Category() = %s, want INTEGER", i, tok.Category())
		}
	}
}

func TestIntValueSignDecode(t *testing.T) {
	// A code whose sign bit (bit 13) is set decodes to a negative value,
	// even though Integer() itself never constructs one directly.
	tok, err := Decode(0x2000)
	if err != nil {
		t.Fatalf("Decode(0x2000): %v", err)
	}
	v, ok := tok.IntValue()
	if !ok {
		t.Fatal("IntValue() ok = false for INTEGER token")
	}
	if v != -8192 {
		t.Errorf("IntValue() = %d, want -8192", v)
	}

	tok2, err := Decode(0x0001)
	if err != nil {
		t.Fatalf("Decode(0x0001): %v", err)
	}
	if v, _ := tok2.IntValue(); v != 1 {
		t.Errorf("IntValue() = %d, want 1", v)
	}
}

func TestNamedRoundTrip(t *testing.T) {
	for _, e := range namedTable {
		tok, err := Decode(e.code)
		if err != nil {
			t.Fatalf("Decode(%#04x): %v", e.code, err)
		}
		name, ok := tok.Name()
		if !ok || name != e.name {
			t.Errorf("Decode(%#04x).Name() = %q,%v want %q", e.code, name, ok, e.name)
		}
	}
}

func TestProvinceRoundTrip(t *testing.T) {
	if len(provinceTable) != 75 {
		t.Fatalf("provinceTable has %d entries, want 75", len(provinceTable))
	}
	seen := make(map[uint16]bool, len(provinceTable))
	for _, p := range provinceTable {
		if seen[p.code] {
			t.Fatalf("duplicate province code %#04x", p.code)
		}
		seen[p.code] = true

		tok, err := Decode(p.code)
		if err != nil {
			t.Fatalf("Decode(%#04x): %v", p.code, err)
		}
		kind, isSC, ok := tok.ProvinceKind()
		if !ok {
			t.Fatalf("ProvinceKind() ok=false for %q", p.name)
		}
		if kind != p.kind || isSC != p.isSC {
			t.Errorf("%q: ProvinceKind() = (%s,%v), want (%s,%v)", p.name, kind, isSC, p.kind, p.isSC)
		}
	}
}

func TestLondonPinnedCode(t *testing.T) {
	tok, ok := ByProvince("LON")
	if !ok {
		t.Fatal("ByProvince(\"LON\") not found")
	}
	if tok.Code() != 0x553A {
		t.Errorf("LON code = %#04x, want 0x553A", tok.Code())
	}
	kind, isSC, _ := tok.ProvinceKind()
	if kind != ProvinceCoastal || !isSC {
		t.Errorf("LON kind = (%s,%v), want (Coastal,true)", kind, isSC)
	}
}

func TestEnglandPowerVsEnglishChannelProvince(t *testing.T) {
	power, ok := ByName("ENG")
	if !ok {
		t.Fatal("ByName(\"ENG\") not found")
	}
	if power.Category() != CatPower {
		t.Errorf("power ENG category = %s, want POWER", power.Category())
	}

	prov, ok := ByProvince("ENG")
	if !ok {
		t.Fatal("ByProvince(\"ENG\") not found")
	}
	if prov.Category() != CatProvince {
		t.Errorf("province ENG category = %s, want PROVINCE", prov.Category())
	}
	if power.Code() == prov.Code() {
		t.Error("power ENG and province ENG must not share a code")
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, c := range []byte("STANDARD") {
		tok, err := ASCII(c)
		if err != nil {
			t.Fatalf("ASCII(%q): %v", c, err)
		}
		decoded, err := Decode(tok.Code())
		if err != nil {
			t.Fatalf("Decode(%#04x): %v", tok.Code(), err)
		}
		got, ok := decoded.TextChar()
		if !ok || got != c {
			t.Errorf("TextChar() = %q,%v want %q", got, ok, c)
		}
	}
}

func TestUnknownTokenError(t *testing.T) {
	_, err := Decode(0x4A7F) // press sub-range slot with no catalog entry
	if err == nil {
		t.Fatal("expected ErrUnknownToken")
	}
	var unkErr *ErrUnknownToken
	if !asErrUnknownToken(err, &unkErr) {
		t.Fatalf("error %v is not *ErrUnknownToken", err)
	}
}

func asErrUnknownToken(err error, target **ErrUnknownToken) bool {
	if e, ok := err.(*ErrUnknownToken); ok {
		*target = e
		return true
	}
	return false
}

func TestHoldOrderTokenSequenceS3(t *testing.T) {
	bra, _ := Named(codeBRA)
	ket, _ := Named(codeKET)
	eng, _ := ByName("ENG")
	flt, _ := ByName("FLT")
	lon, _ := ByProvince("LON")
	hld, _ := ByName("HLD")

	seq := []Token{bra, bra, eng, flt, lon, ket, hld, ket}
	want := []uint16{0x4000, 0x4000, 0x4101, 0x4201, 0x553A, 0x4001, 0x4322, 0x4001}
	for i, tok := range seq {
		if tok.Code() != want[i] {
			t.Errorf("seq[%d] = %#04x, want %#04x", i, tok.Code(), want[i])
		}
	}
}
