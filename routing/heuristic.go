package routing

import (
	"github.com/paulmach/orb/planar"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// Heuristic estimates remaining cost as planar distance between node
// positions times Scale. With Scale 1 the estimate is in coordinate units,
// not minutes, and is not admissible; AdmissibleScale gives a factor that is
// when positions are planar meters.
type Heuristic struct {
	graph *roadgraph.Graph
	Scale float64
}

func NewHeuristic(g *roadgraph.Graph, scale float64) *Heuristic {
	return &Heuristic{graph: g, Scale: scale}
}

func (h *Heuristic) Estimate(node, goal roadgraph.NodeID) (float64, error) {
	if node == goal {
		if !h.graph.Has(node) {
			return 0, roadgraph.UnknownNodeError{ID: node}
		}
		return 0, nil
	}
	a, err := h.graph.Node(node)
	if err != nil {
		return 0, err
	}
	b, err := h.graph.Node(goal)
	if err != nil {
		return 0, err
	}
	return planar.Distance(a.Position, b.Position) * h.Scale, nil
}

// AdmissibleScale converts planar meters into the fastest possible travel
// minutes, given the highest speed limit in the graph.
func AdmissibleScale(maxSpeed int) float64 {
	if maxSpeed <= 0 {
		maxSpeed = DefaultSpeedLimit
	}
	return 60 / (MetersPerMile * float64(maxSpeed))
}

// MaxSpeedLimit is the highest resolved speed limit over all edges of g.
func MaxSpeedLimit(g *roadgraph.Graph, m *CostModel) int {
	fastest := m.cfg.DefaultSpeed
	for _, e := range g.Edges() {
		if s := m.SpeedLimit(e); s > fastest {
			fastest = s
		}
	}
	return fastest
}
