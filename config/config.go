// Package config reads server settings from the environment, after loading an
// optional .env file.
package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/preprocessing"
	"github.com/mohamedthameursassi/signalroute/routing"
)

type Config struct {
	Port      string
	GraphPath string
	LogLevel  zerolog.Level
	LogFormat string

	Routing routing.Options

	// SignalMode defaults to seeding only the signals the graph file leaves
	// without timing.
	SignalMode preprocessing.SignalMode
	Signals    preprocessing.SignalSeedConfig

	PruneMinDegree int
}

// Load reads .env files (missing files are ignored) and then the process
// environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}
	cfg := &Config{
		Port:      r.str("PORT", "8080"),
		GraphPath: r.str("GRAPH_PATH", ""),
		LogFormat: strings.ToLower(r.str("LOG_FORMAT", "console")),
		Routing:   routing.DefaultOptions(),
		Signals:   preprocessing.DefaultSignalSeedConfig(),
	}

	level, err := zerolog.ParseLevel(strings.ToLower(r.str("LOG_LEVEL", "info")))
	if err != nil {
		r.fail("LOG_LEVEL", err)
	}
	cfg.LogLevel = level
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		r.fail("LOG_FORMAT", fmt.Errorf("want console or json, got %q", cfg.LogFormat))
	}

	if side, ok := lookup("ROUTE_PENALTY_SIDE"); ok {
		parsed, err := routing.ParsePenaltySide(side)
		if err != nil {
			r.fail("ROUTE_PENALTY_SIDE", err)
		}
		cfg.Routing.Cost.PenaltySide = parsed
	}
	cfg.Routing.Cost.DefaultSpeed = r.positiveInt("ROUTE_DEFAULT_SPEED", cfg.Routing.Cost.DefaultSpeed)
	cfg.Routing.Cost.WaitDivisor = r.positiveFloat("ROUTE_WAIT_DIVISOR", cfg.Routing.Cost.WaitDivisor)
	cfg.Routing.HeuristicScale = r.float("ROUTE_HEURISTIC_SCALE", cfg.Routing.HeuristicScale)
	if scale := cfg.Routing.HeuristicScale; scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		r.fail("ROUTE_HEURISTIC_SCALE", fmt.Errorf("must be a finite non-negative number, got %g", scale))
	}
	cfg.Routing.MaxExpansions = r.nonNegativeInt("ROUTE_MAX_EXPANSIONS", 0)
	cfg.Routing.Timeout = r.duration("ROUTE_TIMEOUT", 0)

	mode, err := preprocessing.ParseSignalMode(r.str("SIGNAL_MODE", "fill"))
	if err != nil {
		r.fail("SIGNAL_MODE", err)
	}
	cfg.SignalMode = mode
	cfg.Signals.Seed = int64(r.integer("SIGNAL_SEED", 0))
	cfg.Signals.MinDelay = r.positiveInt("SIGNAL_MIN_DELAY", cfg.Signals.MinDelay)
	cfg.Signals.MaxDelay = r.positiveInt("SIGNAL_MAX_DELAY", cfg.Signals.MaxDelay)
	if cfg.Signals.MaxDelay < cfg.Signals.MinDelay {
		r.fail("SIGNAL_MAX_DELAY", fmt.Errorf("%d is below SIGNAL_MIN_DELAY %d", cfg.Signals.MaxDelay, cfg.Signals.MinDelay))
	}
	cfg.PruneMinDegree = r.nonNegativeInt("PRUNE_MIN_DEGREE", 0)

	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// NewLogger builds the process logger described by cfg.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(c.LogLevel).With().Timestamp().Logger()
}

// reader keeps the first parse error so FromEnv can read every key in a row.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *reader) nonNegativeInt(key string, def int) int {
	n := r.integer(key, def)
	if n < 0 {
		r.fail(key, fmt.Errorf("must not be negative, got %d", n))
		return def
	}
	return n
}

func (r *reader) positiveInt(key string, def int) int {
	n := r.integer(key, def)
	if n <= 0 {
		r.fail(key, fmt.Errorf("must be positive, got %d", n))
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return f
}

func (r *reader) positiveFloat(key string, def float64) float64 {
	f := r.float(key, def)
	if f <= 0 {
		r.fail(key, fmt.Errorf("must be positive, got %g", f))
		return def
	}
	return f
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	if d < 0 {
		r.fail(key, fmt.Errorf("must not be negative, got %s", d))
		return def
	}
	return d
}
