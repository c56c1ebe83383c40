// Package dispatch implements the DAIDE Dispatcher: a handler table keyed
// on a DM's leading token, with a second table for YES/REJ keyed on the
// leading token embedded in their argument.
//
// This replaces the dynamic "resolve a method name from the message's
// leading token" pattern the protocol's source implementation uses with a
// map of handler functions built once at construction time.
package dispatch

import (
	"fmt"

	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

// Handler processes one folded DM body. The leading token itself has
// already been consumed to select the handler; body is everything after
// it, still in fold form for multi-argument messages like HLO.
type Handler func(body message.List) error

// Dispatcher routes folded DM bodies to registered handlers.
type Dispatcher struct {
	handlers    map[uint16]Handler
	yesRejTable map[uint16]Handler // keyed on the embedded leading token's code
	unknown     Handler            // invoked for an unrecognised leading token, if set
}

// New returns an empty Dispatcher; callers register handlers with On and
// OnYesRej before running it.
func New() *Dispatcher {
	return &Dispatcher{
		handlers:    make(map[uint16]Handler),
		yesRejTable: make(map[uint16]Handler),
	}
}

// On registers the handler invoked when a DM's leading token is lead.
func (d *Dispatcher) On(lead token.Token, h Handler) {
	d.handlers[lead.Code()] = h
}

// OnYesRej registers the handler invoked for YES(m) or REJ(m) when m's
// leading token is embeddedLead — e.g. OnYesRej(MAP, h) handles both
// YES(MAP(...)) and REJ(MAP(...)), with body carrying the YES/REJ tag
// distinguishable via body[0].
func (d *Dispatcher) OnYesRej(embeddedLead token.Token, h Handler) {
	d.yesRejTable[embeddedLead.Code()] = h
}

// OnUnknown registers the fallback invoked for a DM whose leading token
// has no registered handler. If unset, unknown leading tokens are silently
// ignored, per the protocol's default policy.
func (d *Dispatcher) OnUnknown(h Handler) {
	d.unknown = h
}

// Dispatch folds m and routes it by its leading token. An empty message
// has nothing to route and is a no-op.
func (d *Dispatcher) Dispatch(m message.Message) error {
	if len(m) == 0 {
		return nil
	}
	folded, err := m.Fold()
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return d.DispatchFolded(folded)
}

// DispatchFolded routes an already-folded message body.
func (d *Dispatcher) DispatchFolded(folded message.List) error {
	if len(folded) == 0 {
		return nil
	}
	lead, ok := folded[0].(token.Token)
	if !ok {
		return d.fallback(folded)
	}

	if isYesOrRej(lead) && len(folded) > 1 {
		if inner, ok := folded[1].(message.List); ok && len(inner) > 0 {
			if embeddedLead, ok := inner[0].(token.Token); ok {
				if h, found := d.yesRejTable[embeddedLead.Code()]; found {
					return h(folded)
				}
			}
		}
	}

	h, found := d.handlers[lead.Code()]
	if !found {
		return d.fallback(folded)
	}
	return h(folded[1:])
}

func (d *Dispatcher) fallback(folded message.List) error {
	if d.unknown == nil {
		return nil
	}
	return d.unknown(folded)
}

func isYesOrRej(t token.Token) bool {
	name, ok := t.Name()
	return ok && (name == "YES" || name == "REJ")
}
