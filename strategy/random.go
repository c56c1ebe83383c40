package strategy

import (
	"github.com/freeeve/daide-client/daide/board"
	"github.com/freeeve/daide-client/daide/token"
)

// Random picks uniformly among legal moves, retreats and builds, falling
// back to hold/disband/waive whenever no legal alternative is available.
// ~30% of units hold outright in the movement phase, matching the
// teacher's mix; everything else moves to one uniformly chosen moveable
// adjacency, or holds if it has none.
type Random struct{}

func (Random) Name() string { return "random" }

func (Random) GenerateMovementOrders(g *board.Gameboard) error {
	for _, u := range g.GetOwnUnits() {
		if randFloat64() < 0.3 {
			g.Add(board.NewHold(u))
			continue
		}

		adj := g.GetMoveableAdjacencies(u)
		if len(adj) == 0 {
			g.Add(board.NewHold(u))
			continue
		}

		dest := adj[randIntn(len(adj))]
		g.Add(board.NewMove(u, dest))
	}
	return nil
}

// GenerateRetreatOrders retreats to a uniformly chosen legal option, or
// disbands if the dislodged unit has none.
func (Random) GenerateRetreatOrders(g *board.Gameboard) error {
	for _, d := range g.GetDislodged() {
		if len(d.Options) == 0 {
			g.Add(board.NewDisband(d.Unit))
			continue
		}
		target := d.Options[randIntn(len(d.Options))]
		g.Add(board.NewRetreat(d.Unit, board.NoCoast(target)))
	}
	return nil
}

// GenerateBuildOrders builds on a uniformly chosen open home center per
// available build, or removes random units to cover a deficit.
func (Random) GenerateBuildOrders(g *board.Gameboard) error {
	builds, waives := g.BuildNumbers()

	open := g.OpenHomeCenters()
	randShuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })

	power := g.PowerPlayed()
	for i := 0; i < builds && i < len(open); i++ {
		g.Add(board.NewBuild(buildUnit(g, power, open[i])))
	}
	for i := 0; i < waives; i++ {
		g.Add(board.NewWaive(power))
	}

	if surplus := g.SCSurplus(); surplus < 0 {
		unordered := g.GetUnordered()
		randShuffle(len(unordered), func(i, j int) { unordered[i], unordered[j] = unordered[j], unordered[i] })
		for i := 0; i < -surplus && i < len(unordered); i++ {
			g.Add(board.NewRemove(unordered[i]))
		}
	}
	return nil
}

var (
	buildTokAMY = mustToken("AMY")
	buildTokFLT = mustToken("FLT")
)

// buildUnit chooses Army, or a Fleet on a 30% coin flip when
// CanHostFleet reports the center has plain fleet adjacencies; a Fleet
// at a province with recorded coasts gets one of them uniformly.
func buildUnit(g *board.Gameboard, power, province token.Token) board.Unit {
	unitType := buildTokAMY
	if g.CanHostFleet(province) && randFloat64() < 0.3 {
		unitType = buildTokFLT
	}

	loc := board.NoCoast(province)
	if unitType.Code() == buildTokFLT.Code() {
		if coasts := g.CoastOptions(province); len(coasts) > 0 {
			loc = board.WithCoast(province, coasts[randIntn(len(coasts))])
		}
	}
	return board.Unit{Power: power, Type: unitType, Loc: loc}
}
