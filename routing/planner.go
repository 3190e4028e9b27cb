// Package routing plans routes over a road graph whose costs depend on
// traffic-signal state.
package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
	"github.com/mohamedthameursassi/signalroute/search"
)

type Options struct {
	Cost           CostConfig
	HeuristicScale float64
	MaxExpansions  int
	// Timeout bounds a single Plan call; 0 disables it.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Cost:           DefaultCostConfig(),
		HeuristicScale: 1,
	}
}

// Route is a planned path. StepCosts[i] is the accumulated cost in minutes on
// reaching Nodes[i]. It is valid for the signal state the graph had when it
// was planned.
type Route struct {
	Nodes          []roadgraph.NodeID `json:"nodes"`
	StepCosts      []float64          `json:"step_costs"`
	Cost           float64            `json:"cost_minutes"`
	DistanceMeters float64            `json:"distance_m"`
	Expanded       int                `json:"expanded"`
}

type Planner struct {
	graph     *roadgraph.Graph
	cost      *CostModel
	heuristic *Heuristic
	opts      Options
	logger    zerolog.Logger
}

func NewPlanner(g *roadgraph.Graph, opts Options, logger zerolog.Logger) *Planner {
	return &Planner{
		graph:     g,
		cost:      NewCostModel(g, opts.Cost),
		heuristic: NewHeuristic(g, opts.HeuristicScale),
		opts:      opts,
		logger:    logger,
	}
}

func (p *Planner) Graph() *roadgraph.Graph { return p.graph }

func (p *Planner) CostModel() *CostModel { return p.cost }

// Plan searches for the cheapest route from start to goal. Unknown ids yield a
// roadgraph.UnknownNodeError; an unreachable goal, an exhausted expansion
// budget or a timeout yield an error matching search.ErrNoPathFound.
//
// The graph's signal state must not change while Plan runs.
func (p *Planner) Plan(ctx context.Context, start, goal roadgraph.NodeID) (*Route, error) {
	for _, id := range []roadgraph.NodeID{start, goal} {
		if !p.graph.Has(id) {
			return nil, roadgraph.UnknownNodeError{ID: id}
		}
	}

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	logger := p.logger.With().Int64("start", int64(start)).Int64("goal", int64(goal)).Logger()
	logger.Debug().Msg("planning route")

	problem := &roadProblem{graph: p.graph, cost: p.cost, heuristic: p.heuristic, goal: goal}
	res, err := search.Search[roadgraph.NodeID](ctx, problem, start, search.Options{
		MaxExpansions: p.opts.MaxExpansions,
		Logger:        &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("route %d -> %d: %w", start, goal, err)
	}

	route := &Route{
		Nodes:     res.Path,
		StepCosts: res.Costs,
		Cost:      res.Cost,
		Expanded:  res.Expanded,
	}
	for i := 1; i < len(route.Nodes); i++ {
		if e, ok := p.graph.EdgeBetween(route.Nodes[i-1], route.Nodes[i]); ok {
			route.DistanceMeters += e.LengthMeters
		}
	}

	logger.Info().
		Int("nodes", len(route.Nodes)).
		Float64("cost_minutes", route.Cost).
		Float64("distance_m", route.DistanceMeters).
		Int("expanded", route.Expanded).
		Msg("route planned")
	return route, nil
}

// Reachable returns the cheapest cost of every node reachable from start
// within maxMinutes under the current signal state. When the expansion budget
// or timeout cuts the run short, the costs settled so far are returned along
// with an error matching search.ErrNoPathFound.
func (p *Planner) Reachable(ctx context.Context, start roadgraph.NodeID, maxMinutes float64) (map[roadgraph.NodeID]float64, error) {
	if !p.graph.Has(start) {
		return nil, roadgraph.UnknownNodeError{ID: start}
	}
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	problem := &roadProblem{graph: p.graph, cost: p.cost, heuristic: p.heuristic, goal: start}
	costs, err := search.Explore[roadgraph.NodeID](ctx, problem, start, maxMinutes, search.Options{
		MaxExpansions: p.opts.MaxExpansions,
	})
	if err != nil {
		return costs, fmt.Errorf("reachable from %d: %w", start, err)
	}
	p.logger.Debug().
		Int64("start", int64(start)).
		Float64("max_minutes", maxMinutes).
		Int("reached", len(costs)).
		Msg("reachability computed")
	return costs, nil
}
