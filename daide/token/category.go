// Package token implements the atomic 16-bit DAIDE protocol symbol: a
// (category byte, value byte) pair, its category rules, and the fixed
// representation table of named tokens.
package token

import (
	"fmt"

	"github.com/freeeve/daide-client/internal/errs"
)

// Category classifies a Token by the high byte of its 16-bit code.
type Category uint8

const (
	CatInteger Category = iota
	CatBracket
	CatPower
	CatUnitType
	CatOrder
	CatOrderNote
	CatResult
	CatCoast
	CatPhase
	CatCommand
	CatParameter
	CatPress
	CatText
	CatProvince
	CatReserved
)

func (c Category) String() string {
	switch c {
	case CatInteger:
		return "INTEGER"
	case CatBracket:
		return "BRACKET"
	case CatPower:
		return "POWER"
	case CatUnitType:
		return "UNIT_TYPE"
	case CatOrder:
		return "ORDER"
	case CatOrderNote:
		return "ORDER_NOTE"
	case CatResult:
		return "RESULT"
	case CatCoast:
		return "COAST"
	case CatPhase:
		return "PHASE"
	case CatCommand:
		return "COMMAND"
	case CatParameter:
		return "PARAMETER"
	case CatPress:
		return "PRESS"
	case CatText:
		return "TEXT"
	case CatProvince:
		return "PROVINCE"
	default:
		return "RESERVED"
	}
}

// ProvinceKind classifies a province token by terrain, independent of
// supply-center status.
type ProvinceKind uint8

const (
	ProvinceInland ProvinceKind = iota
	ProvinceSea
	ProvinceCoastal
	ProvinceBicoastal
)

func (k ProvinceKind) String() string {
	switch k {
	case ProvinceInland:
		return "Inland"
	case ProvinceSea:
		return "Sea"
	case ProvinceCoastal:
		return "Coastal"
	case ProvinceBicoastal:
		return "Bicoastal"
	default:
		return "Unknown"
	}
}

// categoryForByte derives a Category from a code's high byte alone, per
// the numeric assignment table in the protocol's external interfaces.
func categoryForByte(hi byte) Category {
	switch {
	case hi <= 0x3F:
		return CatInteger
	case hi == 0x40:
		return CatBracket
	case hi == 0x41:
		return CatPower
	case hi == 0x42:
		return CatUnitType
	case hi == 0x43:
		return CatOrder
	case hi == 0x44:
		return CatOrderNote
	case hi == 0x45:
		return CatResult
	case hi == 0x46:
		return CatCoast
	case hi == 0x47:
		return CatPhase
	case hi == 0x48:
		return CatCommand
	case hi == 0x49:
		return CatParameter
	case hi == 0x4A:
		return CatPress
	case hi == 0x4B:
		return CatText
	case hi >= 0x50 && hi <= 0x57:
		return CatProvince
	default:
		return CatReserved
	}
}

// provinceKindForByte decodes the {Inland,Sea,Coastal,Bicoastal}x{non-SC,SC}
// sub-range for a province high byte in 0x50-0x57.
func provinceKindForByte(hi byte) (kind ProvinceKind, isSC bool, ok bool) {
	if hi < 0x50 || hi > 0x57 {
		return 0, false, false
	}
	offset := hi - 0x50
	return ProvinceKind(offset / 2), offset%2 == 1, true
}

// ErrUnknownToken is returned when a code cannot be resolved to a known
// named token and does not fall in the INTEGER or TEXT ranges.
type ErrUnknownToken struct {
	Code uint16
}

func (e *ErrUnknownToken) Error() string {
	return fmt.Sprintf("token: unknown code %#04x", e.Code)
}

// Is reports ErrUnknownToken as the shared internal/errs decode sentinel,
// so callers can match with errors.Is(err, errs.ErrUnknownToken) without
// needing the code that triggered it.
func (e *ErrUnknownToken) Is(target error) bool {
	return target == errs.ErrUnknownToken
}
