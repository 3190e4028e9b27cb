package routing

import (
	"github.com/mohamedthameursassi/signalroute/roadgraph"
	"github.com/mohamedthameursassi/signalroute/search"
)

// roadProblem adapts a graph, cost model and heuristic to search.Problem.
type roadProblem struct {
	graph     *roadgraph.Graph
	cost      *CostModel
	heuristic *Heuristic
	goal      roadgraph.NodeID
}

var _ search.Problem[roadgraph.NodeID] = (*roadProblem)(nil)

func (p *roadProblem) Successors(s roadgraph.NodeID) ([]roadgraph.NodeID, error) {
	return p.graph.Successors(s)
}

func (p *roadProblem) TransitionCost(accumulated float64, from, to roadgraph.NodeID) (float64, error) {
	return p.cost.TransitionCost(accumulated, from, to)
}

func (p *roadProblem) Heuristic(s roadgraph.NodeID) (float64, error) {
	return p.heuristic.Estimate(s, p.goal)
}

func (p *roadProblem) IsGoal(s roadgraph.NodeID) bool { return s == p.goal }
