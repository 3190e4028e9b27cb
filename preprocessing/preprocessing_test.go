package preprocessing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

func TestNodeIDFor(t *testing.T) {
	assert.Equal(t, roadgraph.NodeID(42), NodeIDFor("42"))
	assert.Equal(t, roadgraph.NodeID(-7), NodeIDFor(" -7 "))
	assert.Equal(t, NodeIDFor("stop_7"), NodeIDFor("stop_7"))
	assert.NotEqual(t, NodeIDFor("stop_7"), NodeIDFor("stop_8"))
	assert.GreaterOrEqual(t, int64(NodeIDFor("bixi_456")), int64(0))
}

func successors(t *testing.T, g *roadgraph.Graph, id roadgraph.NodeID) []roadgraph.NodeID {
	t.Helper()
	succ, err := g.Successors(id)
	require.NoError(t, err)
	return succ
}

func TestLoadFixture(t *testing.T) {
	f, err := os.Open("testdata/diamond.yaml")
	require.NoError(t, err)
	defer f.Close()

	ds, err := LoadFixture(f)
	require.NoError(t, err)
	require.Len(t, ds.Nodes, 4)
	require.Len(t, ds.Edges, 5, "the A-C edge is declared in both directions")

	a, b, c, d := NodeIDFor("A"), NodeIDFor("B"), NodeIDFor("C"), NodeIDFor("D")
	assert.Equal(t, roadgraph.KindTrafficSignal, ds.Nodes[1].Kind)
	assert.Equal(t, roadgraph.Signal{BaseDelay: 6, Countdown: 6, Color: roadgraph.Green}, ds.Nodes[1].Signal)
	assert.Equal(t, roadgraph.KindStopSign, ds.Nodes[2].Kind)
	assert.Equal(t, orb.Point{1, -1}, ds.Nodes[2].Position)

	g, err := ds.Build()
	require.NoError(t, err)
	assert.Equal(t, []roadgraph.NodeID{b, c}, successors(t, g, a))
	assert.Equal(t, []roadgraph.NodeID{a, d}, successors(t, g, c))

	e, ok := g.EdgeBetween(a, c)
	require.True(t, ok)
	assert.Equal(t, roadgraph.Major, e.Class)
	assert.Equal(t, roadgraph.TwoWay, e.Direction)
	e, ok = g.EdgeBetween(a, b)
	require.True(t, ok)
	assert.Equal(t, "North Rd", e.Name)
	assert.Equal(t, roadgraph.OneWay, e.Direction)
}

func TestLoadFixtureRejectsUnknownKind(t *testing.T) {
	_, err := LoadFixture(strings.NewReader("nodes:\n  - id: 1\n    kind: roundabout\n"))
	assert.Error(t, err)
}

func TestLoadOSMnx(t *testing.T) {
	f, err := os.Open("testdata/osmnx.json")
	require.NoError(t, err)
	defer f.Close()

	ds, err := LoadOSMnx(f)
	require.NoError(t, err)
	require.Len(t, ds.Nodes, 4)
	require.Len(t, ds.Edges, 3, "the zero-length link is dropped")

	stop := NodeIDFor("stop_7")
	assert.Equal(t, roadgraph.KindNone, ds.Nodes[0].Kind)
	assert.Equal(t, roadgraph.KindTrafficSignal, ds.Nodes[1].Kind)
	assert.Equal(t, stop, ds.Nodes[2].ID)
	assert.Equal(t, roadgraph.KindStopSign, ds.Nodes[2].Kind)
	assert.Equal(t, roadgraph.KindNone, ds.Nodes[3].Kind, "turning circles carry no control")
	assert.Equal(t, orb.Point{-73.60, 45.50}, ds.Nodes[0].Position)

	first := ds.Edges[0]
	assert.Equal(t, roadgraph.NodeID(101), first.From)
	assert.Equal(t, roadgraph.NodeID(102), first.To)
	assert.Equal(t, "40", first.MaxSpeed)
	assert.Equal(t, roadgraph.Major, first.Class)
	assert.Equal(t, roadgraph.TwoWay, first.Direction)
	assert.Len(t, first.Geometry, 3)

	merged := ds.Edges[1]
	assert.Equal(t, stop, merged.To)
	assert.Equal(t, "30 mph", merged.MaxSpeed)
	assert.Equal(t, "Av. du Parc,Park Ave", merged.Name)
	assert.Equal(t, roadgraph.OneWay, merged.Direction)
	assert.Equal(t, roadgraph.Minor, merged.Class)

	assert.Equal(t, orb.LineString{{-73.59, 45.5}, {-73.58, 45.49}}, ds.Edges[2].Geometry)
	assert.Equal(t, 1, ds.MalformedSpeeds(), `"none" falls back to the default`)

	_, err = ds.Build()
	require.NoError(t, err)
}

func TestLoadOSMnxBareDocument(t *testing.T) {
	doc := `{"directed": true, "graph": {"crs": "epsg:4326"},
		"nodes": [{"id": 1, "x": 0, "y": 0}, {"id": 2, "x": 1, "y": 0, "highway": "traffic_signals", "signal_delay": 5, "signal_color": "green"}],
		"links": [{"source": 1, "target": 2, "length": 10.5, "maxspeed": 25}]}`
	ds, err := LoadOSMnx(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ds.Nodes, 2)
	require.Len(t, ds.Edges, 1)
	assert.Equal(t, roadgraph.Signal{BaseDelay: 5, Countdown: 5, Color: roadgraph.Green}, ds.Nodes[1].Signal)
	assert.Equal(t, "25", ds.Edges[0].MaxSpeed)
}

func TestLoadOSMnxErrors(t *testing.T) {
	_, err := LoadOSMnx(strings.NewReader(`{"nodes": [`))
	assert.Error(t, err)

	_, err = LoadOSMnx(strings.NewReader(`{"nodes": [{"id": true}]}`))
	assert.Error(t, err)
}

func TestLoadOSM(t *testing.T) {
	f, err := os.Open("testdata/small.osm")
	require.NoError(t, err)
	defer f.Close()

	ds, err := LoadOSM(context.Background(), f)
	require.NoError(t, err)

	ids := make([]roadgraph.NodeID, 0, len(ds.Nodes))
	for _, n := range ds.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []roadgraph.NodeID{1, 2, 3, 4}, ids, "footway-only nodes are skipped")
	assert.Equal(t, roadgraph.KindTrafficSignal, ds.Nodes[1].Kind)
	assert.Equal(t, roadgraph.KindStopSign, ds.Nodes[3].Kind)

	g, err := ds.Build()
	require.NoError(t, err)
	assert.Equal(t, 5, g.EdgeCount())
	assert.Equal(t, []roadgraph.NodeID{2}, successors(t, g, 1))
	assert.Equal(t, []roadgraph.NodeID{1, 3}, successors(t, g, 2))
	assert.Equal(t, []roadgraph.NodeID{2}, successors(t, g, 3), "way 11 only runs 4 -> 3")
	assert.Equal(t, []roadgraph.NodeID{3}, successors(t, g, 4))

	e, ok := g.EdgeBetween(1, 2)
	require.True(t, ok)
	assert.InDelta(t, 78, e.LengthMeters, 1)
	assert.Equal(t, "25 mph", e.MaxSpeed)
	assert.Equal(t, "Rue A", e.Name)
	assert.Equal(t, roadgraph.TwoWay, e.Direction)

	e, ok = g.EdgeBetween(4, 3)
	require.True(t, ok)
	assert.Equal(t, roadgraph.OneWay, e.Direction)
	assert.Equal(t, roadgraph.Major, e.Class)
}

func TestWayDirections(t *testing.T) {
	tests := []struct {
		tags               map[string]string
		forward, backward bool
	}{
		{map[string]string{"highway": "residential"}, true, true},
		{map[string]string{"highway": "residential", "oneway": "yes"}, true, false},
		{map[string]string{"highway": "residential", "oneway": "-1"}, false, true},
		{map[string]string{"highway": "motorway"}, true, false},
		{map[string]string{"highway": "motorway", "oneway": "no"}, true, true},
		{map[string]string{"highway": "primary", "junction": "roundabout"}, true, false},
	}
	for _, tt := range tests {
		fw, bw := wayDirections(tagsOf(tt.tags))
		assert.Equal(t, tt.forward, fw, "%v", tt.tags)
		assert.Equal(t, tt.backward, bw, "%v", tt.tags)
	}
}

func tagsOf(m map[string]string) osm.Tags {
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	return tags
}

func TestSeedSignals(t *testing.T) {
	nodes := []roadgraph.Node{{ID: 1}}
	for i := 2; i <= 50; i++ {
		nodes = append(nodes, roadgraph.Node{ID: roadgraph.NodeID(i), Kind: roadgraph.KindTrafficSignal})
	}
	cfg := SignalSeedConfig{Seed: 7, MinDelay: 4, MaxDelay: 8}
	require.NoError(t, SeedSignals(nodes, cfg))

	assert.Equal(t, roadgraph.Signal{}, nodes[0].Signal)
	colors := map[roadgraph.Color]int{}
	for _, n := range nodes[1:] {
		assert.GreaterOrEqual(t, n.Signal.BaseDelay, 4)
		assert.LessOrEqual(t, n.Signal.BaseDelay, 8)
		assert.Equal(t, n.Signal.BaseDelay, n.Signal.Countdown)
		colors[n.Signal.Color]++
	}
	assert.Len(t, colors, 2)

	again := make([]roadgraph.Node, len(nodes))
	for i, n := range nodes {
		again[i] = roadgraph.Node{ID: n.ID, Kind: n.Kind}
	}
	require.NoError(t, SeedSignals(again, cfg))
	assert.Equal(t, nodes, again, "same seed, same signals")

	assert.Error(t, SeedSignals(nodes, SignalSeedConfig{MinDelay: 5, MaxDelay: 2}))
	assert.Error(t, SeedSignals(nodes, SignalSeedConfig{MinDelay: 0, MaxDelay: 2}))
}

func TestFillMissingSignals(t *testing.T) {
	timed := roadgraph.Signal{BaseDelay: 6, Countdown: 2, Color: roadgraph.Green}
	nodes := []roadgraph.Node{
		{ID: 1},
		{ID: 2, Kind: roadgraph.KindTrafficSignal, Signal: timed},
		{ID: 3, Kind: roadgraph.KindTrafficSignal},
	}
	n, err := FillMissingSignals(nodes, DefaultSignalSeedConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, roadgraph.Signal{}, nodes[0].Signal)
	assert.Equal(t, timed, nodes[1].Signal)
	assert.GreaterOrEqual(t, nodes[2].Signal.BaseDelay, 4)
	assert.LessOrEqual(t, nodes[2].Signal.BaseDelay, 8)
	assert.Equal(t, nodes[2].Signal.BaseDelay, nodes[2].Signal.Countdown)
}

func TestParseSignalMode(t *testing.T) {
	for text, want := range map[string]SignalMode{"": SignalsFillMissing, "fill": SignalsFillMissing, "RESEED": SignalsReseed, " keep ": SignalsKeep} {
		got, err := ParseSignalMode(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
		if text != "" {
			assert.Equal(t, strings.ToLower(strings.TrimSpace(text)), got.String())
		}
	}
	_, err := ParseSignalMode("random")
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	// 1-2-3 form a two-way triangle, 4 hangs off 3 and 5 hangs off 4.
	ds := &Dataset{
		Nodes: []roadgraph.Node{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
	}
	for _, pair := range [][2]roadgraph.NodeID{{1, 2}, {2, 3}, {3, 1}, {3, 4}, {4, 5}} {
		ds.Edges = append(ds.Edges,
			roadgraph.Edge{From: pair[0], To: pair[1], LengthMeters: 1},
			roadgraph.Edge{From: pair[1], To: pair[0], LengthMeters: 1},
		)
	}
	ds.Edges = append(ds.Edges, roadgraph.Edge{From: 1, To: 99, LengthMeters: 1})

	unpruned := Prune(ds, 0)
	assert.Len(t, unpruned.Nodes, 5)
	assert.Len(t, unpruned.Edges, 10, "dangling edge dropped")

	pruned := Prune(ds, 2)
	ids := make([]roadgraph.NodeID, 0, len(pruned.Nodes))
	for _, n := range pruned.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []roadgraph.NodeID{1, 2, 3}, ids, "the 4-5 spur is removed in two rounds")
	assert.Len(t, pruned.Edges, 6)

	_, err := pruned.Build()
	require.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	for _, name := range []string{"diamond.yaml", "osmnx.json", "small.osm"} {
		ds, err := LoadFile(ctx, filepath.Join("testdata", name), logger)
		require.NoError(t, err, name)
		assert.NotEmpty(t, ds.Nodes, name)
	}

	ds, err := LoadFile(ctx, "testdata/diamond.yaml", logger)
	require.NoError(t, err)
	g, err := ds.Build()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "graphs", "diamond.gob")
	require.NoError(t, g.SaveSnapshot(path))

	fromGob, err := LoadFile(ctx, path, logger)
	require.NoError(t, err)
	assert.Equal(t, ds.Nodes, fromGob.Nodes)
	assert.Len(t, fromGob.Edges, len(ds.Edges))

	_, err = LoadFile(ctx, "testdata/diamond.csv", logger)
	assert.Error(t, err)
	_, err = LoadFile(ctx, "testdata/missing.json", logger)
	assert.Error(t, err)
}

func TestLoadGraph(t *testing.T) {
	ctx := context.Background()
	seed := SignalSeedConfig{Seed: 3, MinDelay: 2, MaxDelay: 2}

	g, err := LoadGraph(ctx, "testdata/small.osm", BuildOptions{SignalMode: SignalsReseed, Signals: &seed, PruneMinDegree: 2}, zerolog.Nop())
	require.NoError(t, err)
	// The extract is a simple chain, so pruning dead ends eats all of it.
	assert.Zero(t, g.Len())
	assert.Zero(t, g.EdgeCount())

	g, err = LoadGraph(ctx, "testdata/small.osm", BuildOptions{SignalMode: SignalsReseed, Signals: &seed}, zerolog.Nop())
	require.NoError(t, err)
	s, err := g.Signal(2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.BaseDelay)
	assert.Equal(t, 2, s.Countdown)
}

func TestLoadGraphSeedsUntimedSignalsByDefault(t *testing.T) {
	ctx := context.Background()

	// OSM XML carries no signal timing at all.
	g, err := LoadGraph(ctx, "testdata/small.osm", BuildOptions{}, zerolog.Nop())
	require.NoError(t, err)
	require.NotEmpty(t, g.SignalNodes())
	for _, id := range g.SignalNodes() {
		s, err := g.Signal(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.BaseDelay, 4, "signal %d", id)
		assert.LessOrEqual(t, s.BaseDelay, 8, "signal %d", id)
		assert.Equal(t, s.BaseDelay, s.Countdown, "signal %d", id)
	}

	g, err = LoadGraph(ctx, "testdata/small.osm", BuildOptions{SignalMode: SignalsKeep}, zerolog.Nop())
	require.NoError(t, err)
	s, err := g.Signal(2)
	require.NoError(t, err)
	assert.Zero(t, s.BaseDelay)

	// Timing the file does carry survives the default mode.
	g, err = LoadGraph(ctx, "testdata/diamond.yaml", BuildOptions{}, zerolog.Nop())
	require.NoError(t, err)
	s, err = g.Signal(NodeIDFor("B"))
	require.NoError(t, err)
	assert.Equal(t, roadgraph.Signal{BaseDelay: 6, Countdown: 6, Color: roadgraph.Green}, s)

	_, err = LoadGraph(ctx, "testdata/small.osm", BuildOptions{SignalMode: SignalMode(9)}, zerolog.Nop())
	assert.Error(t, err)
}
