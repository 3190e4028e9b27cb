package roadgraph

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

type Directionality uint8

const (
	TwoWay Directionality = iota
	OneWay
)

func (d Directionality) String() string {
	if d == OneWay {
		return "one_way"
	}
	return "two_way"
}

func (d Directionality) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Directionality) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "two_way", "two-way", "":
		*d = TwoWay
	case "one_way", "one-way", "oneway":
		*d = OneWay
	default:
		return fmt.Errorf("unknown directionality %q", text)
	}
	return nil
}

type RoadClass uint8

const (
	Minor RoadClass = iota
	Major
)

func (c RoadClass) String() string {
	if c == Major {
		return "major"
	}
	return "minor"
}

func (c RoadClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *RoadClass) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "minor", "":
		*c = Minor
	case "major":
		*c = Major
	default:
		return fmt.Errorf("unknown road class %q", text)
	}
	return nil
}

// ClassifyHighway maps an OSM highway tag to a road class.
func ClassifyHighway(highway string) RoadClass {
	switch highway {
	case "motorway", "trunk", "primary":
		return Major
	default:
		return Minor
	}
}

// Edge is a directed road segment. MaxSpeed keeps the raw speed limit text
// ("30 mph", "50"); it is resolved when the edge is costed.
type Edge struct {
	From         NodeID         `json:"from"`
	To           NodeID         `json:"to"`
	Name         string         `json:"name,omitempty"`
	Direction    Directionality `json:"direction"`
	Class        RoadClass      `json:"class"`
	LengthMeters float64        `json:"length_m"`
	MaxSpeed     string         `json:"max_speed,omitempty"`
	Geometry     orb.LineString `json:"geometry,omitempty"`
}
