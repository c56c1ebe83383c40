package board

import (
	"fmt"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

// Turn is a (season, year) pair.
type Turn struct {
	Season uint16
	Year   int
}

// adjKey is the unit-type lookup key for a province's adjacency map entry:
// AMY, FLT, or (FLT, coast) for a bicoastal neighbour.
type adjKey struct {
	UnitType uint16
	Coast    uint16
	HasCoast bool
}

type retreatEntry struct {
	unit    Unit
	options []token.Token
}

// Gameboard is the aggregate game state: static map data filled once from
// the first MDF, and dynamic state (supply centers, units, turn, orders,
// retreat options) updated by SCO/NOW/ORD as the game progresses.
type Gameboard struct {
	powerPlayed token.Token
	pressLevel  int

	powers       []token.Token
	homeCenters  map[uint16][]token.Token // power code -> home provinces
	adjacencies  map[uint16]map[adjKey][]Location
	coasts       map[uint16][]token.Token // province code -> coast options

	supplyCenters map[uint16][]token.Token // power code -> owned provinces
	units         map[uint16][]Unit        // power code -> units
	season        token.Token
	year          int
	turn          Turn

	orders      map[Turn][]Order
	retreatOpts map[UnitKey]retreatEntry
}

// NewFromMDF constructs a Gameboard's static data from a folded MDF
// message, per the nested-list shape
// [MDF, [powers…], [[home_sc_lists], [non_sc_list]], [adjacency_entries]].
func NewFromMDF(powerPlayed token.Token, mdf message.Message) (*Gameboard, error) {
	folded, err := mdf.Fold()
	if err != nil {
		return nil, fmt.Errorf("board: MDF: %w", err)
	}
	if len(folded) < 4 {
		return nil, fmt.Errorf("board: MDF: expected at least 4 top-level sections, got %d", len(folded))
	}

	g := &Gameboard{
		powerPlayed:   powerPlayed,
		homeCenters:   make(map[uint16][]token.Token),
		adjacencies:   make(map[uint16]map[adjKey][]Location),
		coasts:        make(map[uint16][]token.Token),
		supplyCenters: make(map[uint16][]token.Token),
		units:         make(map[uint16][]Unit),
		orders:        make(map[Turn][]Order),
		retreatOpts:   make(map[UnitKey]retreatEntry),
	}

	powersList, ok := folded[1].(message.List)
	if !ok {
		return nil, fmt.Errorf("board: MDF: powers section is not a list")
	}
	for _, p := range powersList {
		pt, ok := p.(token.Token)
		if !ok {
			return nil, fmt.Errorf("board: MDF: power entry is not a token")
		}
		g.powers = append(g.powers, pt)
		g.units[pt.Code()] = nil
	}

	scSectionOuter, ok := folded[2].(message.List)
	if !ok || len(scSectionOuter) == 0 {
		return nil, fmt.Errorf("board: MDF: supply-center section malformed")
	}
	scSection, ok := scSectionOuter[0].(message.List)
	if !ok {
		return nil, fmt.Errorf("board: MDF: home-center list malformed")
	}
	for _, item := range scSection {
		lst, ok := item.(message.List)
		if !ok || len(lst) == 0 {
			return nil, fmt.Errorf("board: MDF: home-center entry malformed")
		}
		power, ok := lst[0].(token.Token)
		if !ok {
			return nil, fmt.Errorf("board: MDF: home-center power is not a token")
		}
		var homes []token.Token
		for _, c := range lst[1:] {
			ct, ok := c.(token.Token)
			if !ok {
				return nil, fmt.Errorf("board: MDF: home-center province is not a token")
			}
			homes = append(homes, ct)
		}
		g.homeCenters[power.Code()] = homes
	}

	adjacencies, ok := folded[3].(message.List)
	if !ok {
		return nil, fmt.Errorf("board: MDF: adjacency section is not a list")
	}
	for _, provAdjAny := range adjacencies {
		provAdj, ok := provAdjAny.(message.List)
		if !ok || len(provAdj) == 0 {
			return nil, fmt.Errorf("board: MDF: adjacency entry malformed")
		}
		province, ok := provAdj[0].(token.Token)
		if !ok {
			return nil, fmt.Errorf("board: MDF: adjacency province is not a token")
		}
		g.adjacencies[province.Code()] = make(map[adjKey][]Location)

		for _, adjAny := range provAdj[1:] {
			adj, ok := adjAny.(message.List)
			if !ok || len(adj) == 0 {
				return nil, fmt.Errorf("board: MDF: adjacency sub-entry malformed")
			}
			var key adjKey
			switch spec := adj[0].(type) {
			case token.Token:
				key = adjKey{UnitType: spec.Code()}
			case message.List:
				if len(spec) != 2 {
					return nil, fmt.Errorf("board: MDF: bicoastal unit-type spec malformed")
				}
				ut, ok1 := spec[0].(token.Token)
				ct, ok2 := spec[1].(token.Token)
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("board: MDF: bicoastal unit-type spec has non-token elements")
				}
				key = adjKey{UnitType: ut.Code(), Coast: ct.Code(), HasCoast: true}
				g.coasts[province.Code()] = append(g.coasts[province.Code()], ct)
			default:
				return nil, fmt.Errorf("board: MDF: unit-type spec has unexpected shape")
			}

			var locs []Location
			for _, locAny := range adj[1:] {
				loc, err := decodeLocation(locAny)
				if err != nil {
					return nil, err
				}
				locs = append(locs, loc)
			}
			g.adjacencies[province.Code()][key] = locs
		}
	}

	return g, nil
}

func decodeLocation(v any) (Location, error) {
	switch x := v.(type) {
	case token.Token:
		return NoCoast(x), nil
	case message.List:
		if len(x) != 2 {
			return Location{}, fmt.Errorf("board: MDF: location entry malformed")
		}
		prov, ok1 := x[0].(token.Token)
		coast, ok2 := x[1].(token.Token)
		if !ok1 || !ok2 {
			return Location{}, fmt.Errorf("board: MDF: location entry has non-token elements")
		}
		return WithCoast(prov, coast), nil
	default:
		return Location{}, fmt.Errorf("board: MDF: location entry has unexpected shape")
	}
}

// CurrentTurn returns the active (season, year).
func (g *Gameboard) CurrentTurn() Turn { return g.turn }

// PowerPlayed returns the power this client is bound to (set by HLO).
func (g *Gameboard) PowerPlayed() token.Token { return g.powerPlayed }

// SetPowerPlayed binds the power this client plays, per HLO processing.
func (g *Gameboard) SetPowerPlayed(p token.Token) { g.powerPlayed = p }

// PressLevel returns the press level HLO's LVL parameter carried.
func (g *Gameboard) PressLevel() int { return g.pressLevel }

// SetPressLevel records the press level HLO's LVL parameter carried.
func (g *Gameboard) SetPressLevel(lvl int) { g.pressLevel = lvl }

// ProcessSCO updates supply-center ownership from a folded SCO message:
// [SCO, [power, sc…], …]. UNO names the unowned pseudo-power.
func (g *Gameboard) ProcessSCO(sco message.Message) error {
	folded, err := sco.Fold()
	if err != nil {
		return fmt.Errorf("board: SCO: %w", err)
	}
	for k := range g.supplyCenters {
		g.supplyCenters[k] = nil
	}
	if len(folded) < 1 {
		return fmt.Errorf("board: SCO: empty message")
	}
	for _, posAny := range folded[1:] {
		pos, ok := posAny.(message.List)
		if !ok || len(pos) == 0 {
			return fmt.Errorf("board: SCO: position entry malformed")
		}
		power, ok := pos[0].(token.Token)
		if !ok {
			return fmt.Errorf("board: SCO: position power is not a token")
		}
		var centers []token.Token
		for _, c := range pos[1:] {
			ct, ok := c.(token.Token)
			if !ok {
				return fmt.Errorf("board: SCO: position center is not a token")
			}
			centers = append(centers, ct)
		}
		g.supplyCenters[power.Code()] = centers
	}
	return nil
}

// ProcessNOW installs the new turn, clears unit positions, re-populates
// them, records MRT retreat options, and opens a fresh order slot.
func (g *Gameboard) ProcessNOW(now message.Message) error {
	folded, err := now.Fold()
	if err != nil {
		return fmt.Errorf("board: NOW: %w", err)
	}
	if len(folded) < 2 {
		return fmt.Errorf("board: NOW: missing turn section")
	}
	turnList, ok := folded[1].(message.List)
	if !ok || len(turnList) != 2 {
		return fmt.Errorf("board: NOW: turn section malformed")
	}
	season, ok := turnList[0].(token.Token)
	if !ok {
		return fmt.Errorf("board: NOW: season is not a token")
	}
	year, ok := turnList[1].(int)
	if !ok {
		return fmt.Errorf("board: NOW: year is not an integer")
	}
	g.season = season
	g.year = year
	g.turn = Turn{Season: season.Code(), Year: year}

	g.clearUnits()
	g.retreatOpts = make(map[UnitKey]retreatEntry)

	mrt, _ := token.ByName("MRT")
	for _, posAny := range folded[2:] {
		pos, ok := posAny.(message.List)
		if !ok || len(pos) < 3 {
			return fmt.Errorf("board: NOW: position entry malformed")
		}
		power, ok := pos[0].(token.Token)
		if !ok {
			return fmt.Errorf("board: NOW: position power is not a token")
		}
		unitType, ok := pos[1].(token.Token)
		if !ok {
			return fmt.Errorf("board: NOW: position unit type is not a token")
		}
		loc, err := decodeLocation(pos[2])
		if err != nil {
			return err
		}
		unit := Unit{Power: power, Type: unitType, Loc: loc}
		g.units[power.Code()] = append(g.units[power.Code()], unit)

		for i := 3; i < len(pos); i++ {
			if t, ok := pos[i].(token.Token); ok && t.Code() == mrt.Code() {
				var opts []token.Token
				for _, o := range pos[i+1:] {
					switch ov := o.(type) {
					case token.Token:
						opts = append(opts, ov)
					case message.List:
						for _, inner := range ov {
							if it, ok := inner.(token.Token); ok {
								opts = append(opts, it)
							}
						}
					}
				}
				g.retreatOpts[unit.Key()] = retreatEntry{unit: unit, options: opts}
				break
			}
		}
	}

	g.orders[g.turn] = nil
	return nil
}

func (g *Gameboard) clearUnits() {
	for _, p := range g.powers {
		g.units[p.Code()] = nil
	}
}

// ProcessORD reconciles an ORD message's result onto the stored order
// whose key matches the order body. Missing keys are tolerated.
func (g *Gameboard) ProcessORD(ord message.Message) error {
	folded, err := ord.Fold()
	if err != nil {
		return fmt.Errorf("board: ORD: %w", err)
	}
	if len(folded) < 4 {
		return fmt.Errorf("board: ORD: expected 4 sections, got %d", len(folded))
	}
	turnList, ok := folded[1].(message.List)
	if !ok || len(turnList) != 2 {
		return fmt.Errorf("board: ORD: turn section malformed")
	}
	season, ok := turnList[0].(token.Token)
	if !ok {
		return fmt.Errorf("board: ORD: season is not a token")
	}
	year, ok := turnList[1].(int)
	if !ok {
		return fmt.Errorf("board: ORD: year is not an integer")
	}
	turn := Turn{Season: season.Code(), Year: year}

	orderBody, ok := folded[2].(message.List)
	if !ok {
		return fmt.Errorf("board: ORD: order body malformed")
	}
	key, err := keyFromFolded(orderBody)
	if err != nil {
		return fmt.Errorf("board: ORD: %w", err)
	}

	var resultTokens []token.Token
	switch r := folded[3].(type) {
	case message.List:
		for _, item := range r {
			if t, ok := item.(token.Token); ok {
				resultTokens = append(resultTokens, t)
			}
		}
	case token.Token:
		resultTokens = []token.Token{r}
	}

	for _, order := range g.orders[turn] {
		if order.Key() == key {
			order.SetResult(Result{Tokens: resultTokens, Set: true})
			return nil
		}
	}
	return nil // unmatched key: tolerated, per the reconciliation contract
}

// keyFromFolded reconstructs an order Key from a folded ORD order body, so
// ProcessORD can match it against a stored order without re-parsing the
// wire form of every order kind.
func keyFromFolded(body message.List) (Key, error) {
	if len(body) < 2 {
		return Key{}, fmt.Errorf("order body too short")
	}
	unitSpec, ok := body[0].(message.List)
	if !ok {
		return Key{}, fmt.Errorf("order body's unit section is not a list")
	}
	unit, err := unitFromFolded(unitSpec)
	if err != nil {
		return Key{}, err
	}
	verb, ok := body[1].(token.Token)
	if !ok {
		return Key{}, fmt.Errorf("order body's verb is not a token")
	}
	switch verb.Code() {
	case tokHLD.Code():
		return Key{Kind: KindHold, Unit: unit.Key()}, nil
	case tokDSB.Code():
		return Key{Kind: KindDisband, Unit: unit.Key()}, nil
	case tokBLD.Code():
		return Key{Kind: KindBuild, Unit: unit.Key()}, nil
	case tokREM.Code():
		return Key{Kind: KindRemove, Unit: unit.Key()}, nil
	case tokMTO.Code():
		if len(body) < 3 {
			return Key{}, fmt.Errorf("MTO order body missing destination")
		}
		dest, err := locationFromFolded(body[2])
		if err != nil {
			return Key{}, err
		}
		return Key{Kind: KindMove, Unit: unit.Key(), Dest: dest.Key()}, nil
	case tokRTO.Code():
		if len(body) < 3 {
			return Key{}, fmt.Errorf("RTO order body missing destination")
		}
		dest, err := locationFromFolded(body[2])
		if err != nil {
			return Key{}, err
		}
		return Key{Kind: KindRetreat, Unit: unit.Key(), Dest: dest.Key()}, nil
	case tokSUP.Code():
		if len(body) < 3 {
			return Key{}, fmt.Errorf("SUP order body missing supported unit")
		}
		suppSpec, ok := body[2].(message.List)
		if !ok {
			return Key{}, fmt.Errorf("SUP order body's supported unit is not a list")
		}
		supported, err := unitFromFolded(suppSpec)
		if err != nil {
			return Key{}, err
		}
		if len(body) >= 5 {
			if mto, ok := body[3].(token.Token); ok && mto.Code() == tokMTO.Code() {
				dest, err := locationFromFolded(body[4])
				if err != nil {
					return Key{}, err
				}
				return Key{Kind: KindSupportMove, Unit: unit.Key(), Supported: supported.Key(), Dest: dest.Key()}, nil
			}
		}
		return Key{Kind: KindSupportHold, Unit: unit.Key(), Supported: supported.Key()}, nil
	case tokCVY.Code():
		if len(body) < 5 {
			return Key{}, fmt.Errorf("CVY order body malformed")
		}
		armySpec, ok := body[2].(message.List)
		if !ok {
			return Key{}, fmt.Errorf("CVY order body's army is not a list")
		}
		army, err := unitFromFolded(armySpec)
		if err != nil {
			return Key{}, err
		}
		dest, err := locationFromFolded(body[4])
		if err != nil {
			return Key{}, err
		}
		return Key{Kind: KindConvoy, Unit: unit.Key(), ConvoyUnit: army.Key(), Dest: dest.Key()}, nil
	case tokCTO.Code():
		if len(body) < 5 {
			return Key{}, fmt.Errorf("CTO order body malformed")
		}
		dest, err := locationFromFolded(body[2])
		if err != nil {
			return Key{}, err
		}
		pathList, ok := body[4].(message.List)
		if !ok {
			return Key{}, fmt.Errorf("VIA path is not a list")
		}
		parts := make([]string, 0, len(pathList))
		for _, p := range pathList {
			if t, ok := p.(token.Token); ok {
				parts = append(parts, t.String())
			}
		}
		return Key{Kind: KindMoveViaConvoy, Unit: unit.Key(), Dest: dest.Key(), Path: joinDash(parts)}, nil
	default:
		return Key{}, fmt.Errorf("unrecognised order verb %v", verb)
	}
}

func joinDash(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "-"
		}
		out += p
	}
	return out
}

func unitFromFolded(spec message.List) (Unit, error) {
	if len(spec) < 3 {
		return Unit{}, fmt.Errorf("unit spec too short")
	}
	power, ok := spec[0].(token.Token)
	if !ok {
		return Unit{}, fmt.Errorf("unit power is not a token")
	}
	typ, ok := spec[1].(token.Token)
	if !ok {
		return Unit{}, fmt.Errorf("unit type is not a token")
	}
	loc, err := locationFromFolded(spec[2])
	if err != nil {
		return Unit{}, err
	}
	return Unit{Power: power, Type: typ, Loc: loc}, nil
}

func locationFromFolded(v any) (Location, error) {
	switch x := v.(type) {
	case token.Token:
		return NoCoast(x), nil
	case message.List:
		if len(x) != 2 {
			return Location{}, fmt.Errorf("location entry malformed")
		}
		prov, ok1 := x[0].(token.Token)
		coast, ok2 := x[1].(token.Token)
		if !ok1 || !ok2 {
			return Location{}, fmt.Errorf("location entry has non-token elements")
		}
		return WithCoast(prov, coast), nil
	default:
		return Location{}, fmt.Errorf("location entry has unexpected shape")
	}
}

// GetUnits returns power's current units.
func (g *Gameboard) GetUnits(power token.Token) []Unit { return g.units[power.Code()] }

// GetOwnUnits returns the played power's current units.
func (g *Gameboard) GetOwnUnits() []Unit { return g.GetUnits(g.powerPlayed) }

// GetSupplyCenters returns power's currently-owned supply centers.
func (g *Gameboard) GetSupplyCenters(power token.Token) []token.Token {
	return g.supplyCenters[power.Code()]
}

// CanHostFleet reports whether a plain (non-bicoastal) fleet has any
// recorded adjacency entry at province, which build-order generation uses
// to tell a sea or plain-coastal build site from an inland one.
func (g *Gameboard) CanHostFleet(province token.Token) bool {
	byUnit, ok := g.adjacencies[province.Code()]
	if !ok {
		return false
	}
	_, ok = byUnit[adjKey{UnitType: tokFLT.Code()}]
	return ok
}

// CoastOptions returns the coast tokens recorded for a bicoastal province,
// or nil if province has none.
func (g *Gameboard) CoastOptions(province token.Token) []token.Token {
	return g.coasts[province.Code()]
}

// GetMoveableAdjacencies returns the locations reachable by unit's type
// from its current location; for a bicoastal fleet this indexes by
// (FLT, coast).
func (g *Gameboard) GetMoveableAdjacencies(u Unit) []Location {
	byUnit, ok := g.adjacencies[u.Loc.Province.Code()]
	if !ok {
		return nil
	}
	key := adjKey{UnitType: u.Type.Code()}
	if u.Loc.HasCoast {
		key = adjKey{UnitType: u.Type.Code(), Coast: u.Loc.Coast.Code(), HasCoast: true}
	}
	return byUnit[key]
}

// GetAdjacentProvinces returns provinces reachable from province by both
// an army and a fleet, for convoy planning.
func (g *Gameboard) GetAdjacentProvinces(province token.Token, coast token.Token, hasCoast bool) []Location {
	byUnit, ok := g.adjacencies[province.Code()]
	if !ok {
		return nil
	}
	fleetKey := adjKey{UnitType: tokFLT.Code()}
	if hasCoast {
		fleetKey = adjKey{UnitType: tokFLT.Code(), Coast: coast.Code(), HasCoast: true}
	}
	armyKey := adjKey{UnitType: tokAMY.Code()}

	seen := make(map[LocationKey]Location)
	for _, loc := range byUnit[fleetKey] {
		seen[loc.Key()] = loc
	}
	var out []Location
	for _, loc := range byUnit[armyKey] {
		if _, ok := seen[loc.Key()]; ok {
			out = append(out, loc)
		}
	}
	return out
}

// GetOrders concatenates the current turn's per-order messages, in
// insertion order. The caller prefixes SUB (optionally SUB(turn)) before
// sending.
func (g *Gameboard) GetOrders() message.Message {
	var out message.Message
	for _, order := range g.orders[g.turn] {
		out = out.Concat(order.Message())
	}
	return out
}

// SCSurplus is |own supply centers| − |own units|.
func (g *Gameboard) SCSurplus() int {
	return len(g.GetSupplyCenters(g.powerPlayed)) - len(g.GetOwnUnits())
}

// BuildNumbers returns (builds, waives) for the adjustment phase:
// builds = min(surplus, |open home centers|), waives = surplus − builds.
func (g *Gameboard) BuildNumbers() (builds, waives int) {
	surplus := g.SCSurplus()
	open := len(g.OpenHomeCenters())
	if surplus <= 0 {
		return 0, 0
	}
	builds = surplus
	if open < builds {
		builds = open
	}
	waives = surplus - builds
	return builds, waives
}

// OpenHomeCenters returns home ∩ owned_scs \ occupied_by_own_units.
func (g *Gameboard) OpenHomeCenters() []token.Token {
	home := g.homeCenters[g.powerPlayed.Code()]
	owned := g.supplyCenters[g.powerPlayed.Code()]
	ownedSet := make(map[uint16]bool, len(owned))
	for _, p := range owned {
		ownedSet[p.Code()] = true
	}
	occupied := make(map[uint16]bool)
	for _, u := range g.GetOwnUnits() {
		occupied[u.Loc.Province.Code()] = true
	}
	var open []token.Token
	for _, p := range home {
		if ownedSet[p.Code()] && !occupied[p.Code()] {
			open = append(open, p)
		}
	}
	return open
}

// MissingOrders reports whether any owned unit has yet to receive an
// order this turn.
func (g *Gameboard) MissingOrders() bool {
	return len(g.GetUnordered()) > 0
}

// Add appends order to the current turn, first removing any prior
// non-waive order commanding the same unit. Waive orders command no unit
// and are never evicted or evict others.
func (g *Gameboard) Add(order Order) {
	if uc, isUnitOrder := order.(commander); isUnitOrder {
		newKey := uc.CommandedUnit().Key()
		existing := g.orders[g.turn]
		filtered := existing[:0:0]
		for _, o := range existing {
			if ouc, ok := o.(commander); ok && ouc.CommandedUnit().Key() == newKey {
				continue
			}
			filtered = append(filtered, o)
		}
		g.orders[g.turn] = filtered
	}
	g.orders[g.turn] = append(g.orders[g.turn], order)
}

// IsOrdered reports whether unit already has an order this turn.
func (g *Gameboard) IsOrdered(unit Unit) bool {
	for _, o := range g.orders[g.turn] {
		if uc, ok := o.(commander); ok && uc.CommandedUnit().Key() == unit.Key() {
			return true
		}
	}
	return false
}

// GetDislodged returns the played power's units that must retreat, paired
// with their full list of retreat options (an empty option list means the
// unit has no legal retreat and must disband).
func (g *Gameboard) GetDislodged() []struct {
	Unit    Unit
	Options []token.Token
} {
	var out []struct {
		Unit    Unit
		Options []token.Token
	}
	for _, entry := range g.retreatOpts {
		if entry.unit.Power.Code() == g.powerPlayed.Code() {
			out = append(out, struct {
				Unit    Unit
				Options []token.Token
			}{Unit: entry.unit, Options: entry.options})
		}
	}
	return out
}

// GetOrdered returns the units that have been ordered this turn.
func (g *Gameboard) GetOrdered() []Unit {
	var out []Unit
	for _, o := range g.orders[g.turn] {
		if uc, ok := o.(commander); ok {
			out = append(out, uc.CommandedUnit())
		}
	}
	return out
}

// GetUnordered returns the played power's units that have not yet been
// ordered this turn.
func (g *Gameboard) GetUnordered() []Unit {
	var out []Unit
	for _, u := range g.GetOwnUnits() {
		if !g.IsOrdered(u) {
			out = append(out, u)
		}
	}
	return out
}
