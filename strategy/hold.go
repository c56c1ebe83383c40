// Package strategy provides client.OrderStrategy implementations: Hold
// (the simplest legal play), Random (uniform legal choice), and Neural
// (ONNX policy inference with a fallback to Random).
package strategy

import "github.com/freeeve/daide-client/daide/board"

// Hold orders every owned unit to hold, retreats dislodged units to their
// first listed option (disbanding those with none), and waives every
// build. It never produces an illegal order and needs no knowledge of the
// map beyond what Gameboard already exposes.
type Hold struct{}

func (Hold) Name() string { return "hold" }

func (Hold) GenerateMovementOrders(g *board.Gameboard) error {
	for _, u := range g.GetOwnUnits() {
		g.Add(board.NewHold(u))
	}
	return nil
}

// GenerateRetreatOrders retreats each dislodged unit to its first listed
// option, or disbands it if it has none.
func (Hold) GenerateRetreatOrders(g *board.Gameboard) error {
	for _, d := range g.GetDislodged() {
		if len(d.Options) == 0 {
			g.Add(board.NewDisband(d.Unit))
			continue
		}
		g.Add(board.NewRetreat(d.Unit, board.NoCoast(d.Options[0])))
	}
	return nil
}

// GenerateBuildOrders never builds: a surplus of centers over units is
// waived in full, and a deficit removes unordered units to match.
func (Hold) GenerateBuildOrders(g *board.Gameboard) error {
	surplus := g.SCSurplus()
	switch {
	case surplus > 0:
		for i := 0; i < surplus; i++ {
			g.Add(board.NewWaive(g.PowerPlayed()))
		}
	case surplus < 0:
		unordered := g.GetUnordered()
		for i := 0; i < -surplus && i < len(unordered); i++ {
			g.Add(board.NewRemove(unordered[i]))
		}
	}
	return nil
}
