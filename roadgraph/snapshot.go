package roadgraph

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// snapshot is the gob wire form of a graph: the dataset New consumes.
type snapshot struct {
	Nodes []Node
	Edges []Edge
}

// WriteSnapshot encodes the graph, including current signal state, as gob.
func (g *Graph) WriteSnapshot(w io.Writer) error {
	nodes, edges := g.Dataset()
	if err := gob.NewEncoder(w).Encode(snapshot{Nodes: nodes, Edges: edges}); err != nil {
		return fmt.Errorf("failed to encode graph snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a gob snapshot and rebuilds the graph.
func ReadSnapshot(r io.Reader) (*Graph, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode graph snapshot: %w", err)
	}
	return New(snap.Nodes, snap.Edges)
}

func (g *Graph) SaveSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file %s: %w", path, err)
	}
	if err := g.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadSnapshot(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
