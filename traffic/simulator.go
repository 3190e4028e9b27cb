// Package traffic advances traffic-signal state in discrete ticks.
package traffic

import (
	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// Advance applies one tick to a signal: at a countdown of 1 or less the color
// toggles and the countdown resets to the base delay, otherwise it counts down.
func Advance(s roadgraph.Signal) roadgraph.Signal {
	if s.Countdown <= 1 {
		s.Color = s.Color.Toggle()
		s.Countdown = s.BaseDelay
		return s
	}
	s.Countdown--
	return s
}

// Tick advances every traffic signal of g by one step and returns the ids of
// the signals that changed color. It must not run while a search over g is in
// progress.
func Tick(g *roadgraph.Graph) ([]roadgraph.NodeID, error) {
	var toggled []roadgraph.NodeID
	for _, id := range g.SignalNodes() {
		s, err := g.Signal(id)
		if err != nil {
			return toggled, err
		}
		next := Advance(s)
		if err := g.SetSignal(id, next); err != nil {
			return toggled, err
		}
		if next.Color != s.Color {
			toggled = append(toggled, id)
		}
	}
	return toggled, nil
}

// Simulator drives Tick on one graph and counts elapsed ticks.
type Simulator struct {
	graph   *roadgraph.Graph
	elapsed int
	logger  zerolog.Logger
}

func NewSimulator(g *roadgraph.Graph, logger zerolog.Logger) *Simulator {
	return &Simulator{graph: g, logger: logger}
}

func (s *Simulator) Graph() *roadgraph.Graph { return s.graph }

// Elapsed returns the number of ticks run so far.
func (s *Simulator) Elapsed() int { return s.elapsed }

func (s *Simulator) Step() ([]roadgraph.NodeID, error) {
	toggled, err := Tick(s.graph)
	if err != nil {
		return toggled, err
	}
	s.elapsed++
	if len(toggled) > 0 {
		s.logger.Debug().Int("tick", s.elapsed).Int("toggled", len(toggled)).Msg("signals changed")
	}
	return toggled, nil
}

// Run advances n ticks and returns how many color changes happened.
func (s *Simulator) Run(n int) (int, error) {
	changes := 0
	for i := 0; i < n; i++ {
		toggled, err := s.Step()
		if err != nil {
			return changes, err
		}
		changes += len(toggled)
	}
	return changes, nil
}

// SignalState is a signal snapshot for display.
type SignalState struct {
	ID roadgraph.NodeID `json:"id"`
	roadgraph.Signal
}

// Signals snapshots all traffic signals of g.
func Signals(g *roadgraph.Graph) []SignalState {
	ids := g.SignalNodes()
	states := make([]SignalState, 0, len(ids))
	for _, id := range ids {
		s, err := g.Signal(id)
		if err != nil {
			continue
		}
		states = append(states, SignalState{ID: id, Signal: s})
	}
	return states
}
