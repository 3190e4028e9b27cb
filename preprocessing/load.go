package preprocessing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// LoadFile reads a dataset, picking the format from the file extension:
// .json (OSMnx node-link), .osm (OSM XML), .yaml/.yml (fixture) or .gob
// (graph snapshot).
func LoadFile(ctx context.Context, path string, logger zerolog.Logger) (*Dataset, error) {
	logger.Info().Str("path", path).Msg("loading graph")

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gob" {
		g, err := roadgraph.LoadSnapshot(path)
		if err != nil {
			return nil, err
		}
		nodes, edges := g.Dataset()
		return logLoaded(logger, path, &Dataset{Nodes: nodes, Edges: edges}), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open graph file: %w", err)
	}
	defer f.Close()

	var ds *Dataset
	switch ext {
	case ".json":
		ds, err = LoadOSMnx(f)
	case ".osm", ".xml":
		ds, err = LoadOSM(ctx, f)
	case ".yaml", ".yml":
		ds, err = LoadFixture(f)
	default:
		return nil, fmt.Errorf("unsupported graph format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return logLoaded(logger, path, ds), nil
}

func logLoaded(logger zerolog.Logger, path string, ds *Dataset) *Dataset {
	ev := logger.Info()
	if n := ds.MalformedSpeeds(); n > 0 {
		ev = logger.Warn().Int("default_speed_edges", n)
	}
	ev.Str("path", path).
		Int("nodes", len(ds.Nodes)).
		Int("edges", len(ds.Edges)).
		Int("signals", ds.SignalCount()).
		Msg("graph loaded")
	return ds
}

// BuildOptions are the optional steps LoadGraph applies between loading and
// construction. The zero value fills in missing signal timing with
// DefaultSignalSeedConfig and does not prune.
type BuildOptions struct {
	SignalMode SignalMode
	// Signals defaults to DefaultSignalSeedConfig when nil.
	Signals *SignalSeedConfig
	// PruneMinDegree of 0 disables pruning.
	PruneMinDegree int
}

// LoadGraph loads path, seeds its signals according to opts.SignalMode,
// optionally prunes it, and builds the graph.
func LoadGraph(ctx context.Context, path string, opts BuildOptions, logger zerolog.Logger) (*roadgraph.Graph, error) {
	ds, err := LoadFile(ctx, path, logger)
	if err != nil {
		return nil, err
	}

	seedCfg := DefaultSignalSeedConfig()
	if opts.Signals != nil {
		seedCfg = *opts.Signals
	}
	switch opts.SignalMode {
	case SignalsReseed:
		if err := SeedSignals(ds.Nodes, seedCfg); err != nil {
			return nil, err
		}
		logger.Info().Int64("seed", seedCfg.Seed).Int("signals", ds.SignalCount()).Msg("signals seeded")
	case SignalsFillMissing:
		n, err := FillMissingSignals(ds.Nodes, seedCfg)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			logger.Info().Int64("seed", seedCfg.Seed).Int("signals", n).Msg("seeded signals without timing")
		}
	case SignalsKeep:
	default:
		return nil, fmt.Errorf("unknown signal mode %d", int(opts.SignalMode))
	}

	if opts.PruneMinDegree > 0 {
		before := len(ds.Nodes)
		ds = Prune(ds, opts.PruneMinDegree)
		logger.Info().Int("removed", before-len(ds.Nodes)).Int("min_degree", opts.PruneMinDegree).Msg("graph pruned")
	}
	g, err := ds.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
