package preprocessing

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
)

// SignalSeedConfig controls how SeedSignals initialises traffic signals.
type SignalSeedConfig struct {
	Seed     int64
	MinDelay int
	MaxDelay int
}

func DefaultSignalSeedConfig() SignalSeedConfig {
	return SignalSeedConfig{MinDelay: 4, MaxDelay: 8}
}

// SignalMode selects what LoadGraph does with the signal state a source
// carries.
type SignalMode int

const (
	// SignalsFillMissing seeds the signals whose source carries no timing
	// (a zero base delay) and keeps the rest.
	SignalsFillMissing SignalMode = iota
	// SignalsReseed seeds every signal.
	SignalsReseed
	// SignalsKeep leaves the source state untouched.
	SignalsKeep
)

func (m SignalMode) String() string {
	switch m {
	case SignalsFillMissing:
		return "fill"
	case SignalsReseed:
		return "reseed"
	case SignalsKeep:
		return "keep"
	default:
		return fmt.Sprintf("SignalMode(%d)", int(m))
	}
}

func ParseSignalMode(s string) (SignalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fill":
		return SignalsFillMissing, nil
	case "reseed":
		return SignalsReseed, nil
	case "keep":
		return SignalsKeep, nil
	default:
		return 0, fmt.Errorf("unknown signal mode %q (want fill, reseed or keep)", s)
	}
}

// SeedSignals gives every traffic signal in nodes a random color and a base
// delay drawn from [MinDelay, MaxDelay], with the countdown starting full.
// The same seed always produces the same assignment.
func SeedSignals(nodes []roadgraph.Node, cfg SignalSeedConfig) error {
	_, err := seedSignals(nodes, cfg, false)
	return err
}

// FillMissingSignals seeds only the traffic signals with a zero base delay,
// as SeedSignals would, and reports how many it touched.
func FillMissingSignals(nodes []roadgraph.Node, cfg SignalSeedConfig) (int, error) {
	return seedSignals(nodes, cfg, true)
}

func seedSignals(nodes []roadgraph.Node, cfg SignalSeedConfig, onlyMissing bool) (int, error) {
	if cfg.MinDelay < 1 || cfg.MaxDelay < cfg.MinDelay {
		return 0, fmt.Errorf("invalid signal delay range [%d, %d]", cfg.MinDelay, cfg.MaxDelay)
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))
	seeded := 0
	for i := range nodes {
		if nodes[i].Kind != roadgraph.KindTrafficSignal {
			continue
		}
		if onlyMissing && nodes[i].Signal.BaseDelay > 0 {
			continue
		}
		delay := cfg.MinDelay + rnd.Intn(cfg.MaxDelay-cfg.MinDelay+1)
		color := roadgraph.Red
		if rnd.Intn(2) == 1 {
			color = roadgraph.Green
		}
		nodes[i].Signal = roadgraph.Signal{BaseDelay: delay, Countdown: delay, Color: color}
		seeded++
	}
	return seeded, nil
}
