package board

import (
	"strings"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

func mustOrderToken(name string) token.Token {
	t, ok := token.ByName(name)
	if !ok {
		panic("board: order token " + name + " not found in representation table")
	}
	return t
}

var (
	tokHLD = mustOrderToken("HLD")
	tokMTO = mustOrderToken("MTO")
	tokSUP = mustOrderToken("SUP")
	tokCVY = mustOrderToken("CVY")
	tokCTO = mustOrderToken("CTO")
	tokVIA = mustOrderToken("VIA")
	tokRTO = mustOrderToken("RTO")
	tokDSB = mustOrderToken("DSB")
	tokBLD = mustOrderToken("BLD")
	tokREM = mustOrderToken("REM")
	tokWVE = mustOrderToken("WVE")
	tokAMY = mustOrderToken("AMY")
	tokFLT = mustOrderToken("FLT")
)

// Kind discriminates the Order variants.
type Kind int

const (
	KindHold Kind = iota
	KindMove
	KindSupportHold
	KindSupportMove
	KindConvoy
	KindMoveViaConvoy
	KindRetreat
	KindDisband
	KindBuild
	KindRemove
	KindWaive
)

// Key is the canonical, comparable identity of an Order — the tuple of its
// semantic components, used to reconcile an ORD result against the stored
// order it describes.
type Key struct {
	Kind       Kind
	Unit       UnitKey
	Supported  UnitKey
	Dest       LocationKey
	ConvoyUnit UnitKey
	Power      uint16
	Path       string // '-'-joined province acronyms, for MoveViaConvoy
}

// Result records the outcome token(s) an ORD message attaches to an order
// (SUC, BNC, CUT, DSR, FLD, NSO, RET, each optionally paired with a
// qualifier like a dislodging province).
type Result struct {
	Tokens []token.Token
	Set    bool
}

// Order is any of the eleven order variants: a canonical key for
// reconciliation, a wire-form message, and a mutable result slot filled in
// by ORD processing.
type Order interface {
	Key() Key
	Message() message.Message
	Result() Result
	SetResult(Result)
}

// commander is implemented by every Order except Waive, which commands no
// single unit (it targets a power directly).
type commander interface {
	CommandedUnit() Unit
}

type base struct {
	result Result
}

func (b *base) Result() Result     { return b.result }
func (b *base) SetResult(r Result) { b.result = r }

// HoldOrder: `( unit ) HLD` wrapped.
type HoldOrder struct {
	base
	Unit Unit
}

func NewHold(u Unit) *HoldOrder { return &HoldOrder{Unit: u} }

func (o *HoldOrder) Key() Key              { return Key{Kind: KindHold, Unit: o.Unit.Key()} }
func (o *HoldOrder) CommandedUnit() Unit   { return o.Unit }
func (o *HoldOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokHLD)).Wrap()
}

// MoveOrder: `( unit ) MTO dest` wrapped.
type MoveOrder struct {
	base
	Unit Unit
	Dest Location
}

func NewMove(u Unit, dest Location) *MoveOrder { return &MoveOrder{Unit: u, Dest: dest} }

func (o *MoveOrder) Key() Key {
	return Key{Kind: KindMove, Unit: o.Unit.Key(), Dest: o.Dest.Key()}
}
func (o *MoveOrder) CommandedUnit() Unit { return o.Unit }
func (o *MoveOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokMTO)).Concat(o.Dest.Tokens()).Wrap()
}

// SupportHoldOrder: `( unit ) SUP ( supported )` wrapped.
type SupportHoldOrder struct {
	base
	Unit      Unit
	Supported Unit
}

func NewSupportHold(u, supported Unit) *SupportHoldOrder {
	return &SupportHoldOrder{Unit: u, Supported: supported}
}

func (o *SupportHoldOrder) Key() Key {
	return Key{Kind: KindSupportHold, Unit: o.Unit.Key(), Supported: o.Supported.Key()}
}
func (o *SupportHoldOrder) CommandedUnit() Unit { return o.Unit }
func (o *SupportHoldOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokSUP)).Concat(o.Supported.Wrap()).Wrap()
}

// SupportMoveOrder: `( unit ) SUP ( supp ) MTO dest` wrapped.
type SupportMoveOrder struct {
	base
	Unit      Unit
	Supported Unit
	Dest      Location
}

func NewSupportMove(u, supported Unit, dest Location) *SupportMoveOrder {
	return &SupportMoveOrder{Unit: u, Supported: supported, Dest: dest}
}

func (o *SupportMoveOrder) Key() Key {
	return Key{Kind: KindSupportMove, Unit: o.Unit.Key(), Supported: o.Supported.Key(), Dest: o.Dest.Key()}
}
func (o *SupportMoveOrder) CommandedUnit() Unit { return o.Unit }
func (o *SupportMoveOrder) Message() message.Message {
	return o.Unit.Wrap().
		Concat(message.Of(tokSUP)).
		Concat(o.Supported.Wrap()).
		Concat(message.Of(tokMTO)).
		Concat(o.Dest.Tokens()).
		Wrap()
}

// ConvoyOrder: `( fleet ) CVY ( army ) CTO dest` wrapped.
type ConvoyOrder struct {
	base
	Fleet Unit
	Army  Unit
	Dest  Location
}

func NewConvoy(fleet, army Unit, dest Location) *ConvoyOrder {
	return &ConvoyOrder{Fleet: fleet, Army: army, Dest: dest}
}

func (o *ConvoyOrder) Key() Key {
	return Key{Kind: KindConvoy, Unit: o.Fleet.Key(), ConvoyUnit: o.Army.Key(), Dest: o.Dest.Key()}
}
func (o *ConvoyOrder) CommandedUnit() Unit { return o.Fleet }
func (o *ConvoyOrder) Message() message.Message {
	return o.Fleet.Wrap().
		Concat(message.Of(tokCVY)).
		Concat(o.Army.Wrap()).
		Concat(message.Of(tokCTO)).
		Concat(o.Dest.Tokens()).
		Wrap()
}

// MoveViaConvoyOrder: `( army ) CTO dest VIA ( path… )` wrapped.
type MoveViaConvoyOrder struct {
	base
	Army Unit
	Dest Location
	Path []token.Token
}

func NewMoveViaConvoy(army Unit, dest Location, path []token.Token) *MoveViaConvoyOrder {
	return &MoveViaConvoyOrder{Army: army, Dest: dest, Path: path}
}

func (o *MoveViaConvoyOrder) Key() Key {
	parts := make([]string, len(o.Path))
	for i, p := range o.Path {
		parts[i] = p.String()
	}
	return Key{Kind: KindMoveViaConvoy, Unit: o.Army.Key(), Dest: o.Dest.Key(), Path: strings.Join(parts, "-")}
}
func (o *MoveViaConvoyOrder) CommandedUnit() Unit { return o.Army }
func (o *MoveViaConvoyOrder) Message() message.Message {
	pathParts := make([]any, len(o.Path))
	for i, p := range o.Path {
		pathParts[i] = p
	}
	path := message.MustBuild(pathParts...)
	return o.Army.Wrap().
		Concat(message.Of(tokCTO)).
		Concat(o.Dest.Tokens()).
		Concat(message.Of(tokVIA)).
		Concat(path.Wrap()).
		Wrap()
}

// RetreatOrder: `( unit ) RTO dest` wrapped.
type RetreatOrder struct {
	base
	Unit Unit
	Dest Location
}

func NewRetreat(u Unit, dest Location) *RetreatOrder { return &RetreatOrder{Unit: u, Dest: dest} }

func (o *RetreatOrder) Key() Key {
	return Key{Kind: KindRetreat, Unit: o.Unit.Key(), Dest: o.Dest.Key()}
}
func (o *RetreatOrder) CommandedUnit() Unit { return o.Unit }
func (o *RetreatOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokRTO)).Concat(o.Dest.Tokens()).Wrap()
}

// DisbandOrder: `( unit ) DSB` wrapped.
type DisbandOrder struct {
	base
	Unit Unit
}

func NewDisband(u Unit) *DisbandOrder { return &DisbandOrder{Unit: u} }

func (o *DisbandOrder) Key() Key            { return Key{Kind: KindDisband, Unit: o.Unit.Key()} }
func (o *DisbandOrder) CommandedUnit() Unit { return o.Unit }
func (o *DisbandOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokDSB)).Wrap()
}

// BuildOrder: `( unit ) BLD` wrapped.
type BuildOrder struct {
	base
	Unit Unit
}

func NewBuild(u Unit) *BuildOrder { return &BuildOrder{Unit: u} }

func (o *BuildOrder) Key() Key            { return Key{Kind: KindBuild, Unit: o.Unit.Key()} }
func (o *BuildOrder) CommandedUnit() Unit { return o.Unit }
func (o *BuildOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokBLD)).Wrap()
}

// RemoveOrder: `( unit ) REM` wrapped.
type RemoveOrder struct {
	base
	Unit Unit
}

func NewRemove(u Unit) *RemoveOrder { return &RemoveOrder{Unit: u} }

func (o *RemoveOrder) Key() Key            { return Key{Kind: KindRemove, Unit: o.Unit.Key()} }
func (o *RemoveOrder) CommandedUnit() Unit { return o.Unit }
func (o *RemoveOrder) Message() message.Message {
	return o.Unit.Wrap().Concat(message.Of(tokREM)).Wrap()
}

// WaiveOrder: `( power WVE )` wrapped. It commands no single unit, so it
// does not implement commander — Gameboard.Add never evicts a prior order
// on its account, matching every power being free to waive many builds.
type WaiveOrder struct {
	base
	Power token.Token
}

func NewWaive(power token.Token) *WaiveOrder { return &WaiveOrder{Power: power} }

func (o *WaiveOrder) Key() Key { return Key{Kind: KindWaive, Power: o.Power.Code()} }
func (o *WaiveOrder) Message() message.Message {
	return message.MustBuild(o.Power, tokWVE).Wrap()
}
