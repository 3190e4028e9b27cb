package routing

import (
	"regexp"
	"strconv"
)

// DefaultSpeedLimit applies when an edge has no usable speed attribute.
const DefaultSpeedLimit = 30

var leadingInt = regexp.MustCompile(`^\s*(\d+)`)

// ParseSpeedLimit reads the integer prefix of a speed attribute such as
// "30 mph" or "50". ok is false for absent, non-numeric or zero values; the
// caller substitutes its default.
func ParseSpeedLimit(raw string) (speed int, ok bool) {
	match := leadingInt.FindStringSubmatch(raw)
	if match == nil {
		return 0, false
	}
	parsed, err := strconv.Atoi(match[1])
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
