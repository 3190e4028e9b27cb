package preprocessing

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// Highway values that carry no car traffic.
var nonDrivable = map[string]bool{
	"footway":      true,
	"path":         true,
	"pedestrian":   true,
	"cycleway":     true,
	"steps":        true,
	"bridleway":    true,
	"corridor":     true,
	"track":        true,
	"proposed":     true,
	"construction": true,
	"platform":     true,
}

// LoadOSM reads an OSM XML extract. Every node of a drivable way becomes an
// intersection and every consecutive pair of way nodes a road segment; two-way
// roads get an edge in each direction.
func LoadOSM(ctx context.Context, r io.Reader) (*Dataset, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	points := make(map[osm.NodeID]*osm.Node)
	var ways []*osm.Way
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			points[o.ID] = o
		case *osm.Way:
			highway := o.Tags.Find("highway")
			if highway == "" || nonDrivable[highway] {
				continue
			}
			ways = append(ways, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan OSM XML: %w", err)
	}

	ds := &Dataset{}
	seen := make(map[osm.NodeID]bool)
	addNode := func(id osm.NodeID) (*osm.Node, error) {
		n, ok := points[id]
		if !ok {
			return nil, fmt.Errorf("way references missing node %d", id)
		}
		if seen[id] {
			return n, nil
		}
		seen[id] = true
		kind, err := roadgraph.ParseKind(n.Tags.Find("highway"))
		if err != nil {
			kind = roadgraph.KindNone
		}
		ds.Nodes = append(ds.Nodes, roadgraph.Node{
			ID:       roadgraph.NodeID(id),
			Kind:     kind,
			Position: orb.Point{n.Lon, n.Lat},
		})
		return n, nil
	}

	for _, w := range ways {
		forward, backward := wayDirections(w.Tags)
		dir := roadgraph.TwoWay
		if !forward || !backward {
			dir = roadgraph.OneWay
		}
		highway := w.Tags.Find("highway")
		for i := 1; i < len(w.Nodes); i++ {
			a, err := addNode(w.Nodes[i-1].ID)
			if err != nil {
				return nil, fmt.Errorf("way %d: %w", w.ID, err)
			}
			b, err := addNode(w.Nodes[i].ID)
			if err != nil {
				return nil, fmt.Errorf("way %d: %w", w.ID, err)
			}
			pa, pb := orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat}
			length := geo.Distance(pa, pb)
			if length <= 0 {
				continue
			}
			seg := roadgraph.Edge{
				Name:         w.Tags.Find("name"),
				Direction:    dir,
				Class:        roadgraph.ClassifyHighway(highway),
				LengthMeters: length,
				MaxSpeed:     w.Tags.Find("maxspeed"),
			}
			if forward {
				e := seg
				e.From, e.To = roadgraph.NodeID(a.ID), roadgraph.NodeID(b.ID)
				e.Geometry = orb.LineString{pa, pb}
				ds.Edges = append(ds.Edges, e)
			}
			if backward {
				e := seg
				e.From, e.To = roadgraph.NodeID(b.ID), roadgraph.NodeID(a.ID)
				e.Geometry = orb.LineString{pb, pa}
				ds.Edges = append(ds.Edges, e)
			}
		}
	}
	return ds, nil
}

// wayDirections reports whether a way can be driven along and against its
// node order.
func wayDirections(tags osm.Tags) (forward, backward bool) {
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return false, true
	case "no", "false", "0":
		return true, true
	}
	if tags.Find("highway") == "motorway" || tags.Find("junction") == "roundabout" {
		return true, false
	}
	return true, true
}
