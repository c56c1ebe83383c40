package token

import "strings"

// entry is one row of the immutable representation catalog: a code and the
// acronym it prints as.
type entry struct {
	code uint16
	name string
}

const (
	codeBRA uint16 = 0x4000
	codeKET uint16 = 0x4001
)

// BRA and KET are the only structural tokens; exported so callers building
// or folding messages never need to know their literal codes.
var (
	BRA = Token{code: codeBRA}
	KET = Token{code: codeKET}
)

// provinceEntry additionally records the terrain/SC classification a
// province token implies, so board construction can look it up without
// re-deriving it from the code.
type provinceEntry struct {
	entry
	kind ProvinceKind
	isSC bool
}

// provinceTable lists the 75 standard-map provinces and their assigned
// codes. Codes are built from the terrain/SC sub-range spec.md's external
// interfaces table assigns (0x50|kind*2|isSC as the high byte) with the low
// byte assigned alphabetically within each of the eight sub-ranges, with one
// documented exception: London is pinned to 0x553A to match the literal
// HoldOrder wire form the protocol's end-to-end scenarios require. See
// DESIGN.md for the full rationale.
var provinceTable = buildProvinceTable()

func buildProvinceTable() []provinceEntry {
	type def struct {
		name string
		kind ProvinceKind
		sc   bool
	}
	// Grouped by (kind, sc) sub-range, alphabetical within each group,
	// matching the standard map's province census (14 inland, 39 plain
	// coastal, 3 bicoastal, 19 sea; supply centers marked per the
	// standard map).
	groups := [4][2][]string{
		ProvinceInland: {
			{"boh", "bur", "gal", "ruh", "sil", "tyr", "ukr"}, // non-SC inland
			{"bud", "mos", "mun", "par", "ser", "vie", "war"}, // SC inland
		},
		ProvinceSea: {
			{
				"adr", "aeg", "bal", "bar", "bla", "bot", "eas", "eng", "gol",
				"hel", "ion", "iri", "mao", "nao", "nrg", "nth", "ska", "tys", "wes",
			}, // no sea province is a supply center
			{},
		},
		ProvinceCoastal: {
			{"alb", "apu", "arm", "cly", "fin", "gas", "lvn", "naf", "pic", "pie", "pru", "syr", "tus", "wal", "yor"}, // non-SC coastal
			{
				"ank", "bel", "ber", "bre", "con", "den", "edi", "gre", "hol",
				"kie", "lon", "lvp", "mar", "nap", "nwy", "por", "rom", "rum",
				"sev", "smy", "swe", "tri", "tun", "ven",
			}, // SC coastal
		},
		ProvinceBicoastal: {
			{}, // every bicoastal province on the standard map is a supply center
			{"bul", "spa", "stp"},
		},
	}

	var table []provinceEntry
	for kind := ProvinceInland; kind <= ProvinceBicoastal; kind++ {
		for scIdx, names := range groups[kind] {
			isSC := scIdx == 1
			hi := 0x50 + byte(kind)*2
			if isSC {
				hi++
			}
			for lo, name := range names {
				code := uint16(hi)<<8 | uint16(lo)
				table = append(table, provinceEntry{
					entry: entry{code: code, name: strings.ToUpper(name)},
					kind:  kind,
					isSC:  isSC,
				})
			}
		}
	}
	return pinLondon(table)
}

// pinLondon overrides London's alphabetically-assigned low byte with 0x3A,
// landing it on 0x553A — the code the protocol's literal HoldOrder scenario
// requires. 0x3A falls outside the low-byte range the alphabetical
// enumeration above ever reaches (at most 24 entries per sub-range), so
// this cannot collide with another coastal-SC province's code.
func pinLondon(table []provinceEntry) []provinceEntry {
	const lonCode uint16 = 0x553A
	for i, e := range table {
		if e.name == "LON" {
			table[i].code = lonCode
			return table
		}
	}
	return table
}

// namedTable is the full catalog of non-INTEGER, non-TEXT tokens: brackets,
// powers, unit types, orders, order notes, results, coasts, phases,
// commands, parameters and press vocabulary. Provinces are appended from
// provinceTable at init time.
var namedTable = []entry{
	{codeBRA, "BRA"},
	{codeKET, "KET"},

	// Powers (0x41xx)
	{0x4100, "AUS"}, {0x4101, "ENG"}, {0x4102, "FRA"}, {0x4103, "GER"},
	{0x4104, "ITA"}, {0x4105, "RUS"}, {0x4106, "TUR"},

	// Unit types (0x42xx)
	{0x4200, "AMY"}, {0x4201, "FLT"},

	// Orders (0x43xx)
	{0x4320, "CTO"}, {0x4321, "CVY"}, {0x4322, "HLD"}, {0x4323, "MTO"},
	{0x4324, "SUP"}, {0x4325, "VIA"}, {0x4340, "DSB"}, {0x4341, "RTO"},
	{0x4380, "BLD"}, {0x4381, "REM"}, {0x4382, "WVE"},

	// Order notes (0x44xx)
	{0x4400, "MBV"}, {0x4401, "BPR"}, {0x4402, "CST"}, {0x4403, "ESC"},
	{0x4404, "FAR"}, {0x4405, "HSC"}, {0x4406, "NAS"}, {0x4407, "NMB"},
	{0x4408, "NMR"}, {0x4409, "NRN"}, {0x440A, "NRS"}, {0x440B, "NSA"},
	{0x440C, "NSC"}, {0x440D, "NSF"}, {0x440E, "NSP"}, {0x440F, "NSU"},
	{0x4410, "NVR"}, {0x4411, "NYU"}, {0x4412, "YSC"},

	// Results (0x45xx)
	{0x4500, "SUC"}, {0x4501, "BNC"}, {0x4502, "CUT"}, {0x4503, "DSR"},
	{0x4504, "FLD"}, {0x4505, "NSO"}, {0x4506, "RET"},

	// Coasts (0x46xx)
	{0x4600, "NCS"}, {0x4602, "NEC"}, {0x4604, "ECS"}, {0x4606, "SEC"},
	{0x4608, "SCS"}, {0x460A, "SWC"}, {0x460C, "WCS"}, {0x460E, "NWC"},

	// Phases (0x47xx)
	{0x4700, "SPR"}, {0x4701, "SUM"}, {0x4702, "FAL"}, {0x4703, "AUT"},
	{0x4704, "WIN"},

	// Commands (0x48xx) — codes from the compatibility-critical subset,
	// plus codes assigned in unused slots for the handler set the
	// dispatcher is required to cover but that subset leaves unnamed.
	{0x4800, "CCD"}, {0x4804, "HLO"}, {0x4807, "IAM"}, {0x4808, "HUH"},
	{0x4809, "MAP"}, {0x480A, "MDF"}, {0x480C, "NME"}, {0x480D, "OFF"},
	{0x480E, "NOW"}, {0x480F, "OBS"}, {0x4810, "DRW"}, {0x4811, "ORD"},
	{0x4812, "OUT"}, {0x4813, "SLO"}, {0x4814, "REJ"}, {0x4815, "SCO"},
	{0x4818, "SUB"}, {0x481A, "THX"}, {0x481C, "YES"}, {0x481D, "ADM"},

	// Parameters (0x49xx)
	{0x4900, "LVL"}, {0x4904, "MRT"}, {0x490B, "UNO"},

	// Press vocabulary (0x4Axx) — transport-level placeholders; the
	// press language itself is out of scope.
	{0x4A00, "PRP"}, {0x4A01, "CCL"}, {0x4A02, "FCT"}, {0x4A03, "TRY"},
}

// byCode resolves any code, named or province, to its printable entry —
// unambiguous, since categories never overlap across the 16-bit space.
var byCode map[uint16]entry

// byName resolves the acronym of a non-province named token (power, unit
// type, order, command, …) to its code.
var byName map[string]uint16

// byProvinceName resolves a province acronym to its code. Kept separate
// from byName because a handful of acronyms are shared between a power and
// a same-named sea province (e.g. "ENG" is both England and the English
// Channel) — the two are distinguished only by category, never by name
// alone, so name-based lookup must be told which table to consult.
var byProvinceName map[string]uint16

func init() {
	byCode = make(map[uint16]entry, len(namedTable)+len(provinceTable))
	byName = make(map[string]uint16, len(namedTable))
	byProvinceName = make(map[string]uint16, len(provinceTable))
	for _, e := range namedTable {
		byCode[e.code] = e
		byName[e.name] = e.code
	}
	for _, p := range provinceTable {
		byCode[p.code] = p.entry
		byProvinceName[p.name] = p.code
	}
}

// ProvinceCode returns the assigned token code for a standard-map province
// given by its upper-case three-letter acronym (e.g. "LON"), and whether it
// was found.
func ProvinceCode(acronym string) (uint16, bool) {
	code, ok := byProvinceName[acronym]
	return code, ok
}
