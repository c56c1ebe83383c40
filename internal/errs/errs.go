// Package errs declares the client's sentinel errors, grouped by the
// layer that raises them, in the teacher's var-block-of-errors.New style.
// Call sites wrap these with fmt.Errorf("...: %w", err) for context.
package errs

import "errors"

// Transport errors.
var (
	ErrNotConnected      = errors.New("transport: not connected")
	ErrHandshakeRejected = errors.New("transport: handshake rejected")
	ErrEOF               = errors.New("transport: connection closed")
)

// Decode errors.
var (
	ErrUnknownToken     = errors.New("decode: unknown token code")
	ErrShortFrame       = errors.New("decode: frame payload shorter than declared length")
	ErrUnbalancedParens = errors.New("decode: unbalanced message brackets")
)

// Protocol errors.
var (
	ErrUnexpectedFrame     = errors.New("protocol: unexpected frame type")
	ErrUnknownLeadingToken = errors.New("protocol: unrecognised leading token")
	ErrUnexpectedVariant   = errors.New("protocol: unexpected map variant")
)

// Game errors.
var (
	ErrNoMap            = errors.New("game: no map loaded yet")
	ErrUnknownPower     = errors.New("game: unknown power")
	ErrUnknownProvince  = errors.New("game: unknown province")
	ErrBadPhaseForOrder = errors.New("game: order kind does not match the current phase")
)
