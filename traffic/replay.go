package traffic

import (
	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// Frame is what a renderer draws for one replay step.
type Frame struct {
	Step      int                   `json:"step"`
	Node      roadgraph.NodeID      `json:"node"`
	Traversed [][2]roadgraph.NodeID `json:"traversed"`
	Elapsed   int                   `json:"elapsed"`
	Signals   []SignalState         `json:"signals"`
	// WaitingAtRed is set when the current node shows red at this step, which
	// the plan may not have accounted for.
	WaitingAtRed bool `json:"waiting_at_red"`
}

// Replay walks a planned path over a graph, advancing the signals once per
// step after the first. The plan itself is not revised.
type Replay struct {
	sim  *Simulator
	path []roadgraph.NodeID
	step int
}

func NewReplay(sim *Simulator, path []roadgraph.NodeID) *Replay {
	return &Replay{sim: sim, path: path}
}

// Next returns the next frame, or false once every path node has been shown.
func (r *Replay) Next() (Frame, bool, error) {
	if r.step >= len(r.path) {
		return Frame{}, false, nil
	}
	if r.step > 0 {
		if _, err := r.sim.Step(); err != nil {
			return Frame{}, false, err
		}
	}

	g := r.sim.Graph()
	node, err := g.Node(r.path[r.step])
	if err != nil {
		return Frame{}, false, err
	}

	traversed := make([][2]roadgraph.NodeID, 0, r.step)
	for i := 1; i <= r.step; i++ {
		traversed = append(traversed, [2]roadgraph.NodeID{r.path[i-1], r.path[i]})
	}

	f := Frame{
		Step:         r.step,
		Node:         node.ID,
		Traversed:    traversed,
		Elapsed:      r.sim.Elapsed(),
		Signals:      Signals(g),
		WaitingAtRed: node.IsRed(),
	}
	r.step++
	return f, true, nil
}

// All drains the replay.
func (r *Replay) All() ([]Frame, error) {
	var frames []Frame
	for {
		f, ok, err := r.Next()
		if err != nil {
			return frames, err
		}
		if !ok {
			return frames, nil
		}
		frames = append(frames, f)
	}
}
