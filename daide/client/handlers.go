package client

import (
	"fmt"

	"github.com/freeeve/daide-client/daide/board"
	"github.com/freeeve/daide-client/daide/message"
	"github.com/freeeve/daide-client/daide/token"
)

var (
	tokHLO = mustToken("HLO")
	tokMAP = mustToken("MAP")
	tokMDF = mustToken("MDF")
	tokSCO = mustToken("SCO")
	tokNOW = mustToken("NOW")
	tokORD = mustToken("ORD")
	tokCCD = mustToken("CCD")
	tokOFF = mustToken("OFF")
	tokOUT = mustToken("OUT")
	tokDRW = mustToken("DRW")
	tokSLO = mustToken("SLO")
	tokHUH = mustToken("HUH")
	tokSPR = mustToken("SPR")
	tokFAL = mustToken("FAL")
	tokSUM = mustToken("SUM")
	tokAUT = mustToken("AUT")
	tokWIN = mustToken("WIN")
	tokLVL = mustToken("LVL")
	tokYES = mustToken("YES")
	tokTHX = mustToken("THX")
)

func mustToken(name string) token.Token {
	t, ok := token.ByName(name)
	if !ok {
		panic("client: token " + name + " not found in representation table")
	}
	return t
}

// dispatchInbound routes one parsed DM. MDF/SCO/NOW/ORD feed the Gameboard
// directly, since those Process* calls re-fold the raw message themselves;
// everything else goes through the Dispatcher's leading-token table.
func (c *Client) dispatchInbound(m message.Message) error {
	if len(m) == 0 {
		return nil
	}
	switch {
	case m[0] == tokMDF:
		return c.handleMDF(m)
	case m[0] == tokSCO:
		return c.handleSCOMsg(m)
	case m[0] == tokNOW:
		return c.handleNOWMsg(m)
	case m[0] == tokORD:
		return c.handleORDMsg(m)
	default:
		return c.disp.Dispatch(m)
	}
}

// handleMDF constructs the Gameboard from the map definition. MDF arrives
// before HLO in the MAP -> MDF -> ... -> HLO sequence, so the power is
// bound here, if at all, to whatever handleHLO has already set; handleHLO
// binds it retroactively onto the Gameboard once it arrives.
func (c *Client) handleMDF(m message.Message) error {
	g, err := board.NewFromMDF(c.power, m)
	if err != nil {
		return fmt.Errorf("client: MDF: %w", err)
	}
	c.board = g
	c.haveMDF = true
	c.log.Infof("map loaded (%s)", c.variant)

	mapMsg, err := message.Of(tokMAP).Apply(c.variant)
	if err != nil {
		return fmt.Errorf("client: MDF: building MAP reply: %w", err)
	}
	reply, err := message.Of(tokYES).Apply(mapMsg)
	if err != nil {
		return fmt.Errorf("client: MDF: building YES(MAP) reply: %w", err)
	}
	return c.send(reply)
}

func (c *Client) handleSCOMsg(m message.Message) error {
	if c.board == nil {
		return fmt.Errorf("client: SCO received before MDF")
	}
	return c.board.ProcessSCO(m)
}

func (c *Client) handleNOWMsg(m message.Message) error {
	if c.board == nil {
		return fmt.Errorf("client: NOW received before MDF")
	}
	if err := c.board.ProcessNOW(m); err != nil {
		return err
	}
	if c.cfg.Observer || c.cfg.Strategy == nil {
		return nil
	}
	if err := c.generateOrders(); err != nil {
		c.log.Errorf("strategy error: %v", err)
		return nil
	}
	return c.SubmitOrders()
}

func (c *Client) handleORDMsg(m message.Message) error {
	if c.board == nil {
		return fmt.Errorf("client: ORD received before MDF")
	}
	return c.board.ProcessORD(m)
}

// generateOrders asks the configured strategy to populate the Gameboard's
// current turn, choosing which phase method applies from the season token
// the last NOW carried.
func (c *Client) generateOrders() error {
	season := c.board.CurrentTurn().Season
	switch season {
	case tokSPR.Code(), tokFAL.Code():
		return c.cfg.Strategy.GenerateMovementOrders(c.board)
	case tokSUM.Code(), tokAUT.Code():
		return c.cfg.Strategy.GenerateRetreatOrders(c.board)
	case tokWIN.Code():
		return c.cfg.Strategy.GenerateBuildOrders(c.board)
	default:
		return fmt.Errorf("client: unrecognised season code %#x", season)
	}
}

func (c *Client) installHandlers() {
	c.disp.On(tokHLO, c.handleHLO)
	c.disp.On(tokMAP, c.handleMAPName)
	c.disp.On(tokCCD, c.handleCCD)
	c.disp.On(tokOFF, c.handleOFF)
	c.disp.On(tokOUT, c.handleOUT)
	c.disp.On(tokDRW, c.handleEndOfGame)
	c.disp.On(tokSLO, c.handleEndOfGame)
	c.disp.On(tokTHX, c.handleTHX)
	c.disp.On(tokHUH, c.handleInboundHUH)
	c.disp.OnYesRej(tokMAP, c.handleYesRejMAP)
	c.disp.OnUnknown(c.handleUnknown)
}

// handleHLO captures the assigned power, passcode and press level; SCO
// and NOW follow from the server without the client having to request
// them. Each argument arrives call-apply
// wrapped, so power and passcode are each a one-element message.List
// rather than a bare token/int.
func (c *Client) handleHLO(body message.List) error {
	if len(body) < 2 {
		return fmt.Errorf("client: HLO: expected at least power and passcode")
	}
	powerGroup, ok := body[0].(message.List)
	if !ok || len(powerGroup) == 0 {
		return fmt.Errorf("client: HLO: power is not a wrapped token")
	}
	power, ok := powerGroup[0].(token.Token)
	if !ok {
		return fmt.Errorf("client: HLO: power is not a token")
	}
	passcodeGroup, ok := body[1].(message.List)
	if !ok || len(passcodeGroup) == 0 {
		return fmt.Errorf("client: HLO: passcode is not wrapped")
	}
	passcode, ok := passcodeGroup[0].(int)
	if !ok {
		return fmt.Errorf("client: HLO: passcode is not an integer")
	}
	c.power = power
	c.havePower = true
	c.passcode = passcode
	c.havePasscode = true
	if c.board != nil {
		c.board.SetPowerPlayed(power)
	}
	if len(body) > 2 {
		if opts, ok := body[2].(message.List); ok && len(opts) >= 2 {
			if lead, ok := opts[0].(token.Token); ok && lead == tokLVL {
				if lvl, ok := opts[1].(int); ok && c.board != nil {
					c.board.SetPressLevel(lvl)
				}
			}
		}
	}
	c.log.Infof("playing %s, passcode %d", power.String(), passcode)
	return nil
}

// handleTHX acknowledges the server's receipt of a submitted order; no
// reply is required.
func (c *Client) handleTHX(message.List) error {
	c.log.Infof("server acknowledged our last order submission")
	return nil
}

// handleInboundHUH logs the server's complaint about one of our messages.
// It must never reply with HUH itself, or the two sides would volley HUH
// back and forth forever.
func (c *Client) handleInboundHUH(body message.List) error {
	c.log.Errorf("server flagged our last message as malformed: %v", body)
	return nil
}

// handleYesRejMAP handles YES(MAP(variant)) and REJ(MAP(variant)), the
// server's response to our MAP negotiation.
func (c *Client) handleYesRejMAP(folded message.List) error {
	if len(folded) == 0 {
		return nil
	}
	lead, ok := folded[0].(token.Token)
	if !ok {
		return nil
	}
	name, _ := lead.Name()
	if name == "REJ" {
		c.log.Errorf("server rejected our map variant")
		return nil
	}
	c.log.Infof("server accepted our map variant")
	return nil
}

func (c *Client) handleMAPName(body message.List) error {
	if len(body) > 0 {
		if name, ok := body[0].(string); ok {
			c.variant = name
		}
	}
	return c.send(message.Of(tokMDF))
}

// handleCCD logs a power's disconnection; the game continues, so this is
// purely observational.
func (c *Client) handleCCD(body message.List) error {
	if len(body) > 0 {
		if p, ok := body[0].(token.Token); ok {
			c.log.Infof("%s has dropped off", p.String())
			return nil
		}
	}
	c.log.Infof("a power has dropped off")
	return nil
}

func (c *Client) handleOFF(message.List) error {
	c.log.Infof("server is shutting down")
	return nil
}

func (c *Client) handleOUT(body message.List) error {
	if len(body) > 0 {
		if p, ok := body[0].(token.Token); ok {
			c.log.Infof("%s has been eliminated", p.String())
		}
	}
	return nil
}

func (c *Client) handleEndOfGame(message.List) error {
	c.log.Infof("game ended")
	return nil
}

func (c *Client) handleUnknown(folded message.List) error {
	c.log.Debugf("unrecognised message, ignoring: %v", folded)
	return nil
}
