package preprocessing

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/paulmach/orb"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

type fixtureNode struct {
	ID     interface{} `yaml:"id"`
	Kind   string      `yaml:"kind"`
	X      float64     `yaml:"x"`
	Y      float64     `yaml:"y"`
	Signal *struct {
		BaseDelay int    `yaml:"base_delay"`
		Countdown *int   `yaml:"countdown"`
		Color     string `yaml:"color"`
	} `yaml:"signal"`
}

type fixtureEdge struct {
	From     interface{} `yaml:"from"`
	To       interface{} `yaml:"to"`
	Name     string      `yaml:"name"`
	Length   float64     `yaml:"length"`
	MaxSpeed string      `yaml:"maxspeed"`
	Class    string      `yaml:"class"`
	// Both adds the reverse edge and marks the pair two-way.
	Both bool `yaml:"both"`
}

type fixture struct {
	Nodes []fixtureNode `yaml:"nodes"`
	Edges []fixtureEdge `yaml:"edges"`
}

// LoadFixture reads a hand-written YAML network. Node ids may be numbers or
// names; names map through NodeIDFor.
func LoadFixture(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	ds := &Dataset{}
	for _, n := range fx.Nodes {
		kind, err := roadgraph.ParseKind(n.Kind)
		if err != nil {
			return nil, err
		}
		node := roadgraph.Node{ID: fixtureID(n.ID), Kind: kind, Position: orb.Point{n.X, n.Y}}
		if n.Signal != nil {
			node.Signal.BaseDelay = n.Signal.BaseDelay
			node.Signal.Countdown = n.Signal.BaseDelay
			if n.Signal.Countdown != nil {
				node.Signal.Countdown = *n.Signal.Countdown
			}
			if err := node.Signal.Color.UnmarshalText([]byte(n.Signal.Color)); err != nil {
				return nil, err
			}
		}
		ds.Nodes = append(ds.Nodes, node)
	}

	for _, e := range fx.Edges {
		var class roadgraph.RoadClass
		if err := class.UnmarshalText([]byte(e.Class)); err != nil {
			return nil, err
		}
		edge := roadgraph.Edge{
			From:         fixtureID(e.From),
			To:           fixtureID(e.To),
			Name:         e.Name,
			Direction:    roadgraph.OneWay,
			Class:        class,
			LengthMeters: e.Length,
			MaxSpeed:     e.MaxSpeed,
		}
		if !e.Both {
			ds.Edges = append(ds.Edges, edge)
			continue
		}
		edge.Direction = roadgraph.TwoWay
		reverse := edge
		reverse.From, reverse.To = edge.To, edge.From
		ds.Edges = append(ds.Edges, edge, reverse)
	}
	return ds, nil
}

func fixtureID(v interface{}) roadgraph.NodeID {
	return NodeIDFor(fmt.Sprint(v))
}
