package routing

import (
	"fmt"
	"math"
	"strings"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

const MetersPerMile = 1609.34

// PenaltySide selects which end of a transition pays the red-light wait.
type PenaltySide uint8

const (
	PenalizeDeparture PenaltySide = iota
	PenalizeArrival
)

func (s PenaltySide) String() string {
	if s == PenalizeArrival {
		return "arrival"
	}
	return "departure"
}

func ParsePenaltySide(s string) (PenaltySide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "departure":
		return PenalizeDeparture, nil
	case "arrival":
		return PenalizeArrival, nil
	default:
		return PenalizeDeparture, fmt.Errorf("unknown penalty side %q", s)
	}
}

type CostConfig struct {
	PenaltySide PenaltySide
	// DefaultSpeed is used for edges without a parsable speed limit.
	DefaultSpeed int
	// WaitDivisor converts a signal's base delay into minutes of wait.
	WaitDivisor float64
}

func DefaultCostConfig() CostConfig {
	return CostConfig{
		PenaltySide:  PenalizeDeparture,
		DefaultSpeed: DefaultSpeedLimit,
		WaitDivisor:  6,
	}
}

// CostModel prices transitions in minutes against the graph's current signal
// state.
type CostModel struct {
	graph *roadgraph.Graph
	cfg   CostConfig
}

func NewCostModel(g *roadgraph.Graph, cfg CostConfig) *CostModel {
	if cfg.DefaultSpeed <= 0 {
		cfg.DefaultSpeed = DefaultSpeedLimit
	}
	if cfg.WaitDivisor <= 0 {
		cfg.WaitDivisor = 6
	}
	return &CostModel{graph: g, cfg: cfg}
}

func (m *CostModel) Config() CostConfig { return m.cfg }

// SpeedLimit resolves the speed limit of an edge, falling back to the
// configured default.
func (m *CostModel) SpeedLimit(e roadgraph.Edge) int {
	if speed, ok := ParseSpeedLimit(e.MaxSpeed); ok {
		return speed
	}
	return m.cfg.DefaultSpeed
}

// TravelMinutes is the time to drive an edge at its speed limit.
func (m *CostModel) TravelMinutes(e roadgraph.Edge) float64 {
	lengthMiles := e.LengthMeters / MetersPerMile
	return lengthMiles / float64(m.SpeedLimit(e)) * 60
}

// WaitPenalty is the red-light wait at n in minutes, zero unless n is a red
// traffic signal.
func (m *CostModel) WaitPenalty(n roadgraph.Node) float64 {
	if !n.IsRed() {
		return 0
	}
	return float64(n.Signal.BaseDelay) / m.cfg.WaitDivisor
}

// TransitionCost returns accumulated plus the cost of moving from -> to.
// A missing edge costs +Inf. from == to is the wait action: no travel time,
// only the signal penalty of that node.
func (m *CostModel) TransitionCost(accumulated float64, from, to roadgraph.NodeID) (float64, error) {
	src, err := m.graph.Node(from)
	if err != nil {
		return 0, err
	}
	dst, err := m.graph.Node(to)
	if err != nil {
		return 0, err
	}

	if from == to {
		return accumulated + m.WaitPenalty(src), nil
	}

	e, ok := m.graph.EdgeBetween(from, to)
	if !ok {
		return math.Inf(1), nil
	}

	penalty := m.WaitPenalty(src)
	if m.cfg.PenaltySide == PenalizeArrival {
		penalty = m.WaitPenalty(dst)
	}
	return accumulated + penalty + m.TravelMinutes(e), nil
}

// PathCost re-prices a node sequence against the current signal state.
func (m *CostModel) PathCost(nodes []roadgraph.NodeID) (float64, error) {
	total := 0.0
	for i := 1; i < len(nodes); i++ {
		next, err := m.TransitionCost(total, nodes[i-1], nodes[i])
		if err != nil {
			return 0, err
		}
		if math.IsInf(next, 1) {
			return 0, fmt.Errorf("no edge from %d to %d", nodes[i-1], nodes[i])
		}
		total = next
	}
	return total, nil
}
