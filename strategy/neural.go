package strategy

import (
	"fmt"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"github.com/freeeve/daide-client/daide/board"
	"gorgonia.org/tensor"
)

// Neural scores legal orders with a pure-Go ONNX policy network (gonnx)
// over a gorgonia.org/tensor feature buffer, falling back to Random
// whenever the model fails to load, and to a uniformly random candidate
// when a single inference call errors. Builds always use Random.
// The encoding here is a fixed-width per-unit feature vector (own supply
// center count, own unit count, candidate destination count); it is deliberately
// small, since no trained model ships with this client and the point is
// to exercise the ONNX runtime seam rather than reproduce one exactly.
type Neural struct {
	modelPath string

	mu      sync.Mutex
	model   *gonnx.Model
	loadErr error
	loaded  bool

	fallback Random
}

// NewNeural returns a Neural strategy that loads its policy model from
// modelPath/policy.onnx on first use.
func NewNeural(modelPath string) *Neural {
	return &Neural{modelPath: modelPath}
}

func (n *Neural) Name() string { return "neural" }

func (n *Neural) ensureLoaded() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.loaded {
		return n.loadErr
	}
	n.loaded = true
	path := n.modelPath
	if path == "" {
		path = "models"
	}
	m, err := gonnx.NewModelFromFile(path + "/policy.onnx")
	if err != nil {
		n.loadErr = fmt.Errorf("strategy: neural: load policy model: %w", err)
		return n.loadErr
	}
	n.model = m
	return nil
}

func (n *Neural) GenerateMovementOrders(g *board.Gameboard) error {
	if err := n.ensureLoaded(); err != nil {
		return n.fallback.GenerateMovementOrders(g)
	}
	for _, u := range g.GetOwnUnits() {
		adj := g.GetMoveableAdjacencies(u)
		dest, ok := n.bestScored(g, len(adj))
		if !ok {
			g.Add(board.NewHold(u))
			continue
		}
		g.Add(board.NewMove(u, adj[dest]))
	}
	return nil
}

func (n *Neural) GenerateRetreatOrders(g *board.Gameboard) error {
	if err := n.ensureLoaded(); err != nil {
		return n.fallback.GenerateRetreatOrders(g)
	}
	for _, d := range g.GetDislodged() {
		idx, ok := n.bestScored(g, len(d.Options))
		if !ok {
			g.Add(board.NewDisband(d.Unit))
			continue
		}
		g.Add(board.NewRetreat(d.Unit, board.NoCoast(d.Options[idx])))
	}
	return nil
}

func (n *Neural) GenerateBuildOrders(g *board.Gameboard) error {
	if err := n.ensureLoaded(); err != nil {
		return n.fallback.GenerateBuildOrders(g)
	}
	return n.fallback.GenerateBuildOrders(g)
}

// bestScored runs the policy model over a synthetic candidate-count
// feature and returns the argmax index into a 0..n-1 candidate list; ok
// is false when there are no candidates or inference fails.
func (n *Neural) bestScored(g *board.Gameboard, numCandidates int) (int, bool) {
	if numCandidates == 0 {
		return 0, false
	}

	scores, err := n.runPolicy(g, numCandidates)
	if err != nil || len(scores) == 0 {
		return randIntn(numCandidates), true
	}

	best := 0
	for i, s := range scores {
		if i < numCandidates && s > scores[best] {
			best = i
		}
	}
	if best >= numCandidates {
		best = numCandidates - 1
	}
	return best, true
}

func (n *Neural) runPolicy(g *board.Gameboard, numCandidates int) ([]float32, error) {
	state := []float32{
		float32(len(g.GetSupplyCenters(g.PowerPlayed()))),
		float32(len(g.GetOwnUnits())),
		float32(numCandidates),
	}
	stateTensor := tensor.New(
		tensor.WithShape(1, len(state)),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(state),
	)

	n.mu.Lock()
	outputs, err := n.model.Run(gonnx.Tensors{"state": stateTensor})
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out, ok := outputs["scores"]
	if !ok {
		return nil, fmt.Errorf("strategy: neural: output %q not found", "scores")
	}
	data, ok := out.Data().([]float32)
	if !ok {
		return nil, fmt.Errorf("strategy: neural: unexpected output type %T", out.Data())
	}
	return data, nil
}
