// Package message implements the DAIDE Message: a flat, ordered sequence
// of tokens that composes by concatenation, wraps in parentheses, packs to
// and parses from big-endian wire bytes, and folds into a nested tree.
package message

import (
	"encoding/binary"
	"fmt"

	"github.com/freeeve/daide-client/daide/token"
)

// Message is an ordered sequence of tokens. The zero value is the empty
// message.
type Message []token.Token

// Build assembles a Message from a heterogeneous argument list: a
// token.Token is appended as-is, an int becomes a single INTEGER token, a
// string becomes one TEXT token per character, and a nested Message
// splices in without adding brackets of its own.
func Build(parts ...any) (Message, error) {
	var out Message
	for _, p := range parts {
		switch v := p.(type) {
		case token.Token:
			out = append(out, v)
		case Message:
			out = append(out, v...)
		case int:
			t, err := token.Integer(v)
			if err != nil {
				return nil, fmt.Errorf("message: build: %w", err)
			}
			out = append(out, t)
		case string:
			for _, r := range v {
				if r > 0x7F {
					return nil, fmt.Errorf("message: build: non-ASCII rune %q in string literal", r)
				}
				t, err := token.ASCII(byte(r))
				if err != nil {
					return nil, fmt.Errorf("message: build: %w", err)
				}
				out = append(out, t)
			}
		default:
			return nil, fmt.Errorf("message: build: unsupported argument type %T", p)
		}
	}
	return out, nil
}

// MustBuild panics on error; for constructing messages from compile-time
// known literals.
func MustBuild(parts ...any) Message {
	m, err := Build(parts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Of builds a one-token message.
func Of(t token.Token) Message { return Message{t} }

// Concat yields the flat concatenation of m and other.
func (m Message) Concat(other Message) Message {
	out := make(Message, 0, len(m)+len(other))
	out = append(out, m...)
	out = append(out, other...)
	return out
}

// Wrap returns BRA · m · KET.
func (m Message) Wrap() Message {
	out := make(Message, 0, len(m)+2)
	out = append(out, token.BRA)
	out = append(out, m...)
	out = append(out, token.KET)
	return out
}

// Apply is the call-apply convenience: m.Apply(args...) = m · wrap(build(args...)).
// Repeated calls compose, so NME("name").Apply("1.0") produces
// NME ( n a m e ) ( 1 . 0 ).
func (m Message) Apply(parts ...any) (Message, error) {
	built, err := Build(parts...)
	if err != nil {
		return nil, err
	}
	return m.Concat(built.Wrap()), nil
}

// Pack encodes the message as a big-endian sequence of 16-bit codes, with
// no length prefix — the transport layer adds that.
func (m Message) Pack() []byte {
	buf := make([]byte, 2*len(m))
	for i, t := range m {
		binary.BigEndian.PutUint16(buf[i*2:], t.Code())
	}
	return buf
}

// Parse splits data into 16-bit big-endian words and decodes each into a
// token. An odd-length payload or an unresolvable code is an error.
func Parse(data []byte) (Message, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("message: parse: odd payload length %d", len(data))
	}
	out := make(Message, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		code := binary.BigEndian.Uint16(data[i:])
		t, err := token.Decode(code)
		if err != nil {
			return nil, fmt.Errorf("message: parse: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// String renders the message for logs: named tokens as their acronym,
// BRA/KET as "(" / ")", integers as decimal, and runs of TEXT tokens fused
// into a single quoted string — matching the rendering rule the protocol's
// external interfaces define for pretty-printing.
func (m Message) String() string {
	var b []byte
	inText := false
	for i, t := range m {
		if i > 0 && !inText {
			b = append(b, ' ')
		}
		if t.Category() == token.CatText {
			if !inText {
				b = append(b, '\'')
				inText = true
			}
			c, _ := t.TextChar()
			b = append(b, c)
			continue
		}
		if inText {
			b = append(b, '\'')
			inText = false
			b = append(b, ' ')
		}
		b = append(b, t.String()...)
	}
	if inText {
		b = append(b, '\'')
	}
	return string(b)
}
