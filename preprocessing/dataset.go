// Package preprocessing turns map data into the node and edge dataset a
// roadgraph.Graph is built from.
package preprocessing

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
	"github.com/mohamedthameursassi/signalroute/routing"
)

// Dataset is a graph before construction; loaders, SeedSignals and Prune
// work on it.
type Dataset struct {
	Nodes []roadgraph.Node
	Edges []roadgraph.Edge
}

func (d *Dataset) Build() (*roadgraph.Graph, error) {
	return roadgraph.New(d.Nodes, d.Edges)
}

// MalformedSpeeds counts edges whose speed attribute will fall back to the
// default speed limit.
func (d *Dataset) MalformedSpeeds() int {
	n := 0
	for _, e := range d.Edges {
		if _, ok := routing.ParseSpeedLimit(e.MaxSpeed); !ok {
			n++
		}
	}
	return n
}

func (d *Dataset) SignalCount() int {
	n := 0
	for _, node := range d.Nodes {
		if node.Kind == roadgraph.KindTrafficSignal {
			n++
		}
	}
	return n
}

// NodeIDFor maps a source id to a NodeID. Decimal ids are used as is, any
// other string is hashed.
func NodeIDFor(raw string) roadgraph.NodeID {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return roadgraph.NodeID(id)
	}
	return roadgraph.NodeID(xxhash.Sum64String(raw) &^ (1 << 63))
}
