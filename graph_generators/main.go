// Command graph_generators converts a map source (OSMnx JSON, OSM XML or a
// YAML fixture) into the gob snapshot the server loads.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/preprocessing"
)

func outputPathFor(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(filepath.Dir(inputPath), base+".gob")
}

func convert(ctx context.Context, inputPath, outputPath string, opts preprocessing.BuildOptions, logger zerolog.Logger) error {
	g, err := preprocessing.LoadGraph(ctx, inputPath, opts, logger)
	if err != nil {
		return err
	}
	if err := g.SaveSnapshot(outputPath); err != nil {
		return err
	}
	logger.Info().
		Str("in", inputPath).
		Str("out", outputPath).
		Int("nodes", g.Len()).
		Int("edges", g.EdgeCount()).
		Int("signals", len(g.SignalNodes())).
		Msg("converted")
	return nil
}

func main() {
	var (
		in       = flag.String("in", "", "input graph (.json, .osm, .yaml)")
		out      = flag.String("out", "", "output .gob path (default: next to the input)")
		signals  = flag.String("signals", "fill", "signal state: fill (seed signals without timing), reseed or keep")
		seed     = flag.Int64("seed", 0, "random seed for signal state")
		minDelay = flag.Int("min-delay", 4, "smallest seeded signal delay")
		maxDelay = flag.Int("max-delay", 8, "largest seeded signal delay")
		prune    = flag.Int("prune", 0, "drop nodes with fewer distinct neighbours than this")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: graph_generators -in <graph> [-out <file.gob>] [-signals fill|reseed|keep] [-seed N] [-prune K]")
		os.Exit(2)
	}
	if *out == "" {
		*out = outputPathFor(*in)
	}

	mode, err := preprocessing.ParseSignalMode(*signals)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	opts := preprocessing.BuildOptions{
		SignalMode:     mode,
		Signals:        &preprocessing.SignalSeedConfig{Seed: *seed, MinDelay: *minDelay, MaxDelay: *maxDelay},
		PruneMinDegree: *prune,
	}
	if err := convert(context.Background(), *in, *out, opts, logger); err != nil {
		logger.Fatal().Err(err).Msg("conversion failed")
	}
}
