// Package board implements the DAIDE Gameboard: static map data parsed
// from MDF, dynamic state updated by SCO/NOW/ORD, and the Unit/Order
// vocabulary with their canonical wire forms.
package board

import (
	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

// Location is a province plus an optional coast, used both for unit
// positions and order destinations.
type Location struct {
	Province token.Token
	Coast    token.Token
	HasCoast bool
}

// LocationKey is the comparable identity of a Location, for use as a map
// key and in Order keys.
type LocationKey struct {
	Province uint16
	Coast    uint16
	HasCoast bool
}

// NoCoast builds a coastless Location.
func NoCoast(province token.Token) Location {
	return Location{Province: province}
}

// WithCoast builds a Location for a bicoastal province.
func WithCoast(province, coast token.Token) Location {
	return Location{Province: province, Coast: coast, HasCoast: true}
}

// Key returns the comparable identity of the location.
func (l Location) Key() LocationKey {
	return LocationKey{Province: l.Province.Code(), Coast: l.Coast.Code(), HasCoast: l.HasCoast}
}

// Tokens renders the destination wire form: `( prov coast )` if the
// location carries a coast, otherwise the bare province token.
func (l Location) Tokens() message.Message {
	if l.HasCoast {
		return message.MustBuild(l.Province, l.Coast).Wrap()
	}
	return message.Of(l.Province)
}

// Unit is (power, unit type, location). A fleet in a bicoastal province
// must carry a coast; an army never does.
type Unit struct {
	Power token.Token
	Type  token.Token
	Loc   Location
}

// UnitKey is the comparable identity of a Unit, used for ordering, dedup
// and order-key reconciliation.
type UnitKey struct {
	Power    uint16
	Type     uint16
	Province uint16
	Coast    uint16
	HasCoast bool
}

// Key returns the comparable identity of the unit.
func (u Unit) Key() UnitKey {
	lk := u.Loc.Key()
	return UnitKey{Power: u.Power.Code(), Type: u.Type.Code(), Province: lk.Province, Coast: lk.Coast, HasCoast: lk.HasCoast}
}

// Tokenize renders the unit as a flat token run: `power type province` or,
// for a bicoastal fleet, `power type ( province coast )`.
func (u Unit) Tokenize() message.Message {
	head := message.MustBuild(u.Power, u.Type)
	if u.Loc.HasCoast {
		return head.Concat(message.MustBuild(u.Loc.Province, u.Loc.Coast).Wrap())
	}
	return head.Concat(message.Of(u.Loc.Province))
}

// Wrap renders the unit wrapped in parentheses, as every canonical order
// wire form requires for the commanding unit.
func (u Unit) Wrap() message.Message {
	return u.Tokenize().Wrap()
}

func (u Unit) IsFleet() bool { return sameToken(u.Type, tokFLT) }
func (u Unit) IsArmy() bool  { return sameToken(u.Type, tokAMY) }

func sameToken(a, b token.Token) bool { return a.Code() == b.Code() }
