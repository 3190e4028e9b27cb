package roadgraph

import "fmt"

// UnknownNodeError is returned when a lookup references an id not in the graph.
type UnknownNodeError struct {
	ID NodeID
}

func (e UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node ID: %d", e.ID)
}

// DuplicateNodeError is returned when two nodes share an id at construction.
type DuplicateNodeError struct {
	ID NodeID
}

func (e DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node ID: %d", e.ID)
}

// DanglingEdgeError is returned when an edge endpoint does not exist.
type DanglingEdgeError struct {
	From    NodeID
	To      NodeID
	Missing NodeID
}

func (e DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %d->%d references missing node %d", e.From, e.To, e.Missing)
}

// InvalidEdgeError is returned for edges with a non-positive length.
type InvalidEdgeError struct {
	From   NodeID
	To     NodeID
	Length float64
}

func (e InvalidEdgeError) Error() string {
	return fmt.Sprintf("edge %d->%d has invalid length %.3f", e.From, e.To, e.Length)
}

// InvalidSignalError is returned when a signal countdown leaves [0, BaseDelay].
type InvalidSignalError struct {
	ID     NodeID
	Signal Signal
}

func (e InvalidSignalError) Error() string {
	return fmt.Sprintf("node %d: signal countdown %d outside [0, %d]", e.ID, e.Signal.Countdown, e.Signal.BaseDelay)
}
