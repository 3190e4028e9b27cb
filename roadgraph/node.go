package roadgraph

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// NodeID identifies an intersection. String ids from map sources are hashed
// into this space by the loaders.
type NodeID int64

// Kind is the traffic control present at an intersection.
type Kind uint8

const (
	KindNone Kind = iota
	KindTrafficSignal
	KindStopSign
)

func (k Kind) String() string {
	switch k {
	case KindTrafficSignal:
		return "traffic_signal"
	case KindStopSign:
		return "stop_sign"
	default:
		return "none"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind accepts both the enum names and the OSM highway tag values.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return KindNone, nil
	case "traffic_signal", "traffic_signals":
		return KindTrafficSignal, nil
	case "stop_sign", "stop":
		return KindStopSign, nil
	default:
		return KindNone, fmt.Errorf("unknown node kind %q", s)
	}
}

// Color of a traffic signal.
type Color uint8

const (
	Red Color = iota
	Green
)

func (c Color) String() string {
	if c == Green {
		return "green"
	}
	return "red"
}

// Toggle returns the opposite color.
func (c Color) Toggle() Color {
	if c == Red {
		return Green
	}
	return Red
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "red", "":
		*c = Red
	case "green":
		*c = Green
	default:
		return fmt.Errorf("unknown signal color %q", text)
	}
	return nil
}

// Signal is the mutable cycle state of a traffic signal. Countdown stays in
// [0, BaseDelay].
type Signal struct {
	BaseDelay int   `json:"base_delay"`
	Countdown int   `json:"countdown"`
	Color     Color `json:"color"`
}

// Valid reports whether the countdown invariant holds.
func (s Signal) Valid() bool {
	return s.BaseDelay >= 0 && s.Countdown >= 0 && s.Countdown <= s.BaseDelay
}

// Node represents a graph node (intersection).
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     Kind      `json:"kind"`
	Position orb.Point `json:"position"`
	Signal   Signal    `json:"signal"`
}

// IsRed reports whether the node is a traffic signal currently showing red.
func (n Node) IsRed() bool {
	return n.Kind == KindTrafficSignal && n.Signal.Color == Red
}
