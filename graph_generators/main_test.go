package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/signalroute/preprocessing"
	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

func TestOutputPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "montreal.gob"), outputPathFor(filepath.Join("data", "montreal.json")))
	assert.Equal(t, "map.gob", outputPathFor("map.osm"))
}

func TestConvert(t *testing.T) {
	in := filepath.Join("..", "preprocessing", "testdata", "small.osm")
	out := filepath.Join(t.TempDir(), "out", "small.gob")
	opts := preprocessing.BuildOptions{
		SignalMode: preprocessing.SignalsReseed,
		Signals:    &preprocessing.SignalSeedConfig{Seed: 11, MinDelay: 5, MaxDelay: 5},
	}
	require.NoError(t, convert(context.Background(), in, out, opts, zerolog.Nop()))

	g, err := roadgraph.LoadSnapshot(out)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 5, g.EdgeCount())
	s, err := g.Signal(2)
	require.NoError(t, err)
	assert.Equal(t, 5, s.BaseDelay)

	assert.Error(t, convert(context.Background(), "missing.osm", out, preprocessing.BuildOptions{}, zerolog.Nop()))
}
