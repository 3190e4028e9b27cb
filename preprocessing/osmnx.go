package preprocessing

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

type osmnxNode struct {
	ID      interface{} `json:"id"` // int or string
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Highway interface{} `json:"highway"`
	Kind    string      `json:"kind"`

	// Optional initial signal state.
	SignalDelay     *int   `json:"signal_delay"`
	SignalCountdown *int   `json:"signal_countdown"`
	SignalColor     string `json:"signal_color"`
}

type osmnxLink struct {
	Source   interface{} `json:"source"`
	Target   interface{} `json:"target"`
	Length   float64     `json:"length"`
	Highway  interface{} `json:"highway"`  // string or list
	Maxspeed interface{} `json:"maxspeed"` // string, number or list
	Name     interface{} `json:"name"`     // string or list
	Oneway   interface{} `json:"oneway"`   // bool or list
	Geometry interface{} `json:"geometry"` // WKT or coordinate list
}

type osmnxGraph struct {
	Nodes []osmnxNode `json:"nodes"`
	Links []osmnxLink `json:"links"`
}

// osmnxDocument accepts a bare node-link document as well as one wrapped in
// a top-level "graph" object.
type osmnxDocument struct {
	osmnxGraph
	Graph osmnxGraph `json:"graph"`
}

// LoadOSMnx reads an OSMnx node-link JSON export. Links with a non-positive
// length are dropped.
func LoadOSMnx(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc osmnxDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse node-link JSON: %w", err)
	}
	src := doc.osmnxGraph
	if len(src.Nodes) == 0 {
		src = doc.Graph
	}

	ds := &Dataset{
		Nodes: make([]roadgraph.Node, 0, len(src.Nodes)),
		Edges: make([]roadgraph.Edge, 0, len(src.Links)),
	}
	for _, n := range src.Nodes {
		node, err := n.convert()
		if err != nil {
			return nil, err
		}
		ds.Nodes = append(ds.Nodes, node)
	}

	for _, l := range src.Links {
		if l.Length <= 0 {
			continue
		}
		from, err := convertID(l.Source)
		if err != nil {
			return nil, fmt.Errorf("link source: %w", err)
		}
		to, err := convertID(l.Target)
		if err != nil {
			return nil, fmt.Errorf("link target: %w", err)
		}
		e := roadgraph.Edge{
			From:         from,
			To:           to,
			Name:         convertToString(l.Name),
			Class:        roadgraph.ClassifyHighway(firstString(l.Highway)),
			LengthMeters: l.Length,
			MaxSpeed:     firstString(l.Maxspeed),
			Geometry:     parseGeometry(l.Geometry),
		}
		if oneway, _ := firstValue(l.Oneway).(bool); oneway {
			e.Direction = roadgraph.OneWay
		}
		ds.Edges = append(ds.Edges, e)
	}
	return ds, nil
}

func (n osmnxNode) convert() (roadgraph.Node, error) {
	id, err := convertID(n.ID)
	if err != nil {
		return roadgraph.Node{}, fmt.Errorf("node id: %w", err)
	}
	kindText := n.Kind
	if kindText == "" {
		kindText = firstString(n.Highway)
	}
	kind, err := roadgraph.ParseKind(kindText)
	if err != nil {
		// Other highway node tags (crossing, turning_circle, ...) carry no control.
		kind = roadgraph.KindNone
	}

	node := roadgraph.Node{ID: id, Kind: kind, Position: orb.Point{n.X, n.Y}}
	if kind != roadgraph.KindTrafficSignal {
		return node, nil
	}
	if n.SignalDelay != nil {
		node.Signal.BaseDelay = *n.SignalDelay
		node.Signal.Countdown = *n.SignalDelay
	}
	if n.SignalCountdown != nil {
		node.Signal.Countdown = *n.SignalCountdown
	}
	if err := node.Signal.Color.UnmarshalText([]byte(n.SignalColor)); err != nil {
		return roadgraph.Node{}, fmt.Errorf("node %d: %w", id, err)
	}
	return node, nil
}

func convertID(id interface{}) (roadgraph.NodeID, error) {
	switch v := id.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return roadgraph.NodeID(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return roadgraph.NodeID(f), nil
	case float64:
		return roadgraph.NodeID(v), nil
	case string:
		return NodeIDFor(v), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", id)
	}
}

func convertToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, convertToString(e))
		}
		return strings.Join(parts, ",")
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// firstValue unwraps the lists OSMnx produces when simplification merges
// ways with different attributes.
func firstValue(val interface{}) interface{} {
	if list, ok := val.([]interface{}); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return val
}

func firstString(val interface{}) string {
	return convertToString(firstValue(val))
}

func parseGeometry(val interface{}) orb.LineString {
	switch v := val.(type) {
	case string:
		ls, err := wkt.UnmarshalLineString(v)
		if err != nil {
			return nil
		}
		return ls
	case []interface{}:
		ls := make(orb.LineString, 0, len(v))
		for _, c := range v {
			pair, ok := c.([]interface{})
			if !ok || len(pair) < 2 {
				return nil
			}
			x, errX := strconv.ParseFloat(convertToString(pair[0]), 64)
			y, errY := strconv.ParseFloat(convertToString(pair[1]), 64)
			if errX != nil || errY != nil {
				return nil
			}
			ls = append(ls, orb.Point{x, y})
		}
		return ls
	default:
		return nil
	}
}
