// Package client wires Token/Message/Transport/Dispatcher/Gameboard
// together into the Client Roles layer: register → send initial →
// send NME/OBS → loop { recv frame → dispatch → maybe respond → maybe
// generate and submit orders }.
package client

import (
	"errors"
	"fmt"

	"github.com/freeeve/daide-client/daide/board"
	"github.com/freeeve/daide-client/daide/dispatch"
	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
	"github.com/freeeve/daide-client/daide/transport"
)

// OrderStrategy is the external collaborator the client calls after each
// NOW has been applied to the Gameboard, for whichever phase the new
// season indicates; SCO alone never triggers it. It is a pure
// computation over the Gameboard that issues Gameboard.Add calls; failing
// to order some owned unit is tolerated (the server treats a missing
// order as Hold).
type OrderStrategy interface {
	Name() string
	GenerateMovementOrders(g *board.Gameboard) error
	GenerateRetreatOrders(g *board.Gameboard) error
	GenerateBuildOrders(g *board.Gameboard) error
}

// Exit codes, per the CLI surface's contract: 0 clean close, 1 transport
// error, 2 handshake rejection, 3 invalid arguments (the caller maps
// ErrInvalidArgs itself, before Run is ever reached).
const (
	ExitClean             = 0
	ExitTransportError    = 1
	ExitHandshakeRejected = 2
	ExitInvalidArgs       = 3
)

var ErrInvalidArgs = errors.New("client: invalid arguments")

// Config configures one client session.
type Config struct {
	Addr     string // host:port
	Name     string // power/bot name sent in NME; ignored if Observer
	Version  string // client version string sent in NME
	Observer bool   // send OBS instead of NME

	Strategy OrderStrategy // nil is valid for an Observer

	// OnInboundMessage, if set, is called with every successfully parsed
	// DM message, before dispatch. It exists solely so an out-of-core
	// admin surface can relay traffic without the core importing it.
	OnInboundMessage func(message.Message)

	Log Logger // nil disables logging
}

// Logger is the minimal logging seam the client uses; internal/logger's
// zerolog-backed implementation satisfies it, and so does a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Client binds one TCP session's Transport, Dispatcher and Gameboard.
type Client struct {
	cfg   Config
	tr    *transport.Transport
	disp  *dispatch.Dispatcher
	board *board.Gameboard
	log   Logger

	power        token.Token
	havePower    bool
	haveMDF      bool
	passcode     int
	havePasscode bool
	variant      string
}

// New constructs a Client. Call Run to dial, register, and loop.
func New(cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: Addr is required", ErrInvalidArgs)
	}
	if !cfg.Observer && cfg.Name == "" {
		return nil, fmt.Errorf("%w: Name is required unless Observer is set", ErrInvalidArgs)
	}
	if !cfg.Observer && cfg.Strategy == nil {
		return nil, fmt.Errorf("%w: Strategy is required unless Observer is set", ErrInvalidArgs)
	}
	log := cfg.Log
	if log == nil {
		log = noopLogger{}
	}
	return &Client{cfg: cfg, log: log}, nil
}

// Run dials the configured address, performs the handshake, registers,
// and drives the event loop until the session ends (clean FM close, EM, or
// transport error). OFF, DRW, SLO and OUT are only logged; they do not end
// the loop, which keeps reading until the server closes the session.
func (c *Client) Run() error {
	tr, err := transport.Dial(c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("client: dial: %w", err)
	}
	defer tr.Close()
	return c.runOn(tr)
}

// runOn drives the handshake-register-loop sequence over an
// already-connected Transport. Split out from Run so tests can drive it
// over a net.Pipe loopback instead of a real dial.
func (c *Client) runOn(tr *transport.Transport) error {
	c.tr = tr

	if err := tr.Handshake(); err != nil {
		return err
	}
	c.log.Infof("handshake complete")

	c.disp = dispatch.New()
	c.installHandlers()

	if err := c.register(); err != nil {
		return fmt.Errorf("client: register: %w", err)
	}

	for {
		typ, payload, err := tr.ReadFrame()
		if err != nil {
			return err
		}
		switch typ {
		case transport.FM:
			c.log.Infof("server closed session")
			return nil
		case transport.EM:
			return fmt.Errorf("client: server sent EM: % X", payload)
		case transport.RM:
			// Representation messages are optional to honour; this
			// client keeps its built-in catalog and ignores them.
			continue
		case transport.DM:
			m, err := message.Parse(payload)
			if err != nil {
				c.log.Errorf("dropping malformed DM: %v", err)
				continue
			}
			if c.cfg.OnInboundMessage != nil {
				c.cfg.OnInboundMessage(m)
			}
			if err := c.dispatchInbound(m); err != nil {
				c.log.Errorf("dispatch error: %v", err)
			}
		}
	}
}

func (c *Client) register() error {
	var m message.Message
	if c.cfg.Observer {
		obs, _ := token.ByName("OBS")
		m = message.Of(obs)
	} else {
		nme, _ := token.ByName("NME")
		built, err := message.Message{nme}.Apply(c.cfg.Name)
		if err != nil {
			return err
		}
		built, err = built.Apply(c.cfg.Version)
		if err != nil {
			return err
		}
		m = built
	}
	return c.send(m)
}

func (c *Client) send(m message.Message) error {
	return c.tr.WriteFrame(transport.DM, m.Pack())
}

// SubmitOrders packs the Gameboard's current-turn orders, prefixed with
// SUB, and sends them.
func (c *Client) SubmitOrders() error {
	if c.board == nil {
		return fmt.Errorf("client: no Gameboard yet")
	}
	sub, _ := token.ByName("SUB")
	m := message.Of(sub).Concat(c.board.GetOrders())
	return c.send(m)
}

// Board returns the client's Gameboard, or nil before MDF has arrived.
func (c *Client) Board() *board.Gameboard { return c.board }

// PowerAssigned returns the power and passcode HLO assigned this session,
// if any. It exists so an out-of-core admin surface can record them
// without reaching into dispatch internals; the core itself never needs
// this outside handlers.go.
func (c *Client) PowerAssigned() (power string, hasPasscode bool, ok bool) {
	if !c.havePower {
		return "", false, false
	}
	return c.power.String(), c.havePasscode, true
}
