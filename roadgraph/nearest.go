package roadgraph

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Nearest returns the node closest to p by planar distance, in the units of
// the node positions. Ties go to the node constructed first. ok is false for
// an empty graph.
func (g *Graph) Nearest(p orb.Point) (id NodeID, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, n := range g.nodes {
		if d := planar.Distance(p, n.Position); d < dist {
			id, dist, ok = n.ID, d, true
		}
	}
	return id, dist, ok
}
