package graph

import "fmt"

// Check verifies the structural invariants: symmetric adjacency, no
// self-loops, positive weights, non-negative frequencies and a matching edge
// count. A failure is a programming error and wraps ErrInconsistent.
func (g *Graph) Check() error {
	half := 0
	for id, n := range g.nodes {
		if n.freq < 0 {
			return fmt.Errorf("%w: %q has negative frequency %d", ErrInconsistent, id, n.freq)
		}
		for nb, w := range n.adj {
			if nb == id {
				return fmt.Errorf("%w: self-loop on %q", ErrInconsistent, id)
			}
			if w < 1 {
				return fmt.Errorf("%w: edge (%q,%q) has weight %d", ErrInconsistent, id, nb, w)
			}
			other, ok := g.nodes[nb]
			if !ok {
				return fmt.Errorf("%w: edge (%q,%q) references missing node", ErrInconsistent, id, nb)
			}
			if other.adj[id] != w {
				return fmt.Errorf("%w: edge (%q,%q) is asymmetric", ErrInconsistent, id, nb)
			}
			half++
		}
	}
	if half != 2*g.edges {
		return fmt.Errorf("%w: edge count %d does not match adjacency (%d)", ErrInconsistent, g.edges, half/2)
	}
	return nil
}

// Assemble rebuilds a graph from its two persisted artifacts: the topology
// (nodes in first-seen order plus weighted edges) and the frequency side
// channel. The key sets must match exactly.
func Assemble(nodes []string, edges []Edge, freq map[string]int) (*Graph, error) {
	if len(nodes) != len(freq) {
		return nil, fmt.Errorf("%w: %d nodes but %d frequency entries", ErrInconsistent, len(nodes), len(freq))
	}

	g := New()
	for _, id := range nodes {
		f, ok := freq[id]
		if !ok {
			return nil, fmt.Errorf("%w: node %q has no frequency entry", ErrInconsistent, id)
		}
		if err := g.AddConcept(id, f); err != nil {
			return nil, fmt.Errorf("assemble: %w", err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, fmt.Errorf("assemble: %w", err)
		}
	}
	return g, nil
}
