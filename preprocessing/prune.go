package preprocessing

import (
	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// Prune repeatedly removes nodes with fewer than minDegree distinct
// neighbours, counting both directions, together with their edges. Edges
// whose endpoints are not in the dataset are dropped as well. A minDegree of
// zero or less only drops those dangling edges.
func Prune(ds *Dataset, minDegree int) *Dataset {
	alive := make(map[roadgraph.NodeID]bool, len(ds.Nodes))
	for _, n := range ds.Nodes {
		alive[n.ID] = true
	}
	edges := make([]roadgraph.Edge, 0, len(ds.Edges))
	for _, e := range ds.Edges {
		if alive[e.From] && alive[e.To] {
			edges = append(edges, e)
		}
	}

	for minDegree > 0 {
		neighbours := make(map[roadgraph.NodeID]map[roadgraph.NodeID]bool, len(alive))
		link := func(a, b roadgraph.NodeID) {
			if neighbours[a] == nil {
				neighbours[a] = make(map[roadgraph.NodeID]bool)
			}
			neighbours[a][b] = true
		}
		for _, e := range edges {
			if e.From == e.To {
				continue
			}
			link(e.From, e.To)
			link(e.To, e.From)
		}

		removed := 0
		for id := range alive {
			if len(neighbours[id]) < minDegree {
				delete(alive, id)
				removed++
			}
		}
		if removed == 0 {
			break
		}
		kept := edges[:0]
		for _, e := range edges {
			if alive[e.From] && alive[e.To] {
				kept = append(kept, e)
			}
		}
		edges = kept
	}

	out := &Dataset{Edges: edges}
	for _, n := range ds.Nodes {
		if alive[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out
}
