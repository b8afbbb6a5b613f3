package interchange

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/conceptmap/internal/graph"
)

// Artifact file names inside a working directory
const (
	GraphFile     = "graph.graphml"
	FrequencyFile = "concept_frequency.json"
)

// WriteFrequencies encodes the frequency side channel
func WriteFrequencies(w io.Writer, freq map[string]int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(freq); err != nil {
		return fmt.Errorf("encode frequencies: %w", err)
	}
	return nil
}

// ReadFrequencies decodes the frequency side channel
func ReadFrequencies(r io.Reader) (map[string]int, error) {
	freq := make(map[string]int)
	if err := json.NewDecoder(r).Decode(&freq); err != nil {
		return nil, fmt.Errorf("decode frequencies: %w", err)
	}
	return freq, nil
}

// Save writes both artifacts into dir
func Save(dir string, g *graph.Graph) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create working dir: %w", err)
	}
	if err := writeFile(filepath.Join(dir, GraphFile), func(w io.Writer) error {
		return WriteGraphML(w, g)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, FrequencyFile), func(w io.Writer) error {
		return WriteFrequencies(w, g.Frequencies())
	})
}

// Load reads both artifacts from the given paths and reassembles the graph.
// Mismatched key sets are reported as graph.ErrInconsistent.
func Load(graphPath, freqPath string) (*graph.Graph, error) {
	gf, err := os.Open(graphPath)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	defer func() { _ = gf.Close() }()

	top, err := ReadGraphML(gf)
	if err != nil {
		return nil, err
	}

	ff, err := os.Open(freqPath)
	if err != nil {
		return nil, fmt.Errorf("open frequencies: %w", err)
	}
	defer func() { _ = ff.Close() }()

	freq, err := ReadFrequencies(ff)
	if err != nil {
		return nil, err
	}

	return graph.Assemble(top.Nodes, top.Edges, freq)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(path), closeErr)
		}
	}()
	return write(f)
}
