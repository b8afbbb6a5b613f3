// Package graph holds the concept co-occurrence graph.
//
// A Graph couples node identity, sentence frequency, first-seen order and
// weighted adjacency in one structure, so the frequency map and the topology
// can never disagree about which concepts exist.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInconsistent reports a broken graph/frequency invariant
var ErrInconsistent = errors.New("graph inconsistent")

// Edge is an undirected weighted co-occurrence.
// From is always the endpoint that was seen first.
type Edge struct {
	From   string
	To     string
	Weight int
}

type node struct {
	freq int
	seq  int
	adj  map[string]int
}

// Graph is an undirected, simple, integer-weighted concept graph.
// It is not safe for concurrent mutation; Builder serializes writers.
type Graph struct {
	nodes   map[string]*node
	nextSeq int
	edges   int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

func (g *Graph) ensure(id string) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{seq: g.nextSeq, adj: make(map[string]int)}
		g.nextSeq++
		g.nodes[id] = n
	}
	return n
}

// Observe records one sentence worth of concepts: every concept's frequency
// grows by one and every distinct pair's edge weight grows by one.
// Duplicates within the slice count once. Empty slices are a no-op.
func (g *Graph) Observe(concepts []string) {
	set := uniq(concepts)
	for _, c := range set {
		g.ensure(c).freq++
	}
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			g.bump(set[i], set[j], 1)
		}
	}
}

func (g *Graph) bump(a, b string, w int) {
	na, nb := g.nodes[a], g.nodes[b]
	if _, ok := na.adj[b]; !ok {
		g.edges++
	}
	na.adj[b] += w
	nb.adj[a] += w
}

func uniq(concepts []string) []string {
	if len(concepts) < 2 {
		return concepts
	}
	seen := make(map[string]bool, len(concepts))
	out := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// AddConcept inserts a concept with a known frequency. Used when loading a
// persisted graph; the concept takes the next first-seen sequence number.
func (g *Graph) AddConcept(id string, freq int) error {
	if id == "" {
		return fmt.Errorf("add concept: empty id")
	}
	if freq < 0 {
		return fmt.Errorf("add concept %q: negative frequency %d", id, freq)
	}
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("add concept %q: duplicate", id)
	}
	g.ensure(id).freq = freq
	return nil
}

// AddEdge inserts a weighted edge between two existing concepts
func (g *Graph) AddEdge(a, b string, weight int) error {
	switch {
	case a == b:
		return fmt.Errorf("add edge %q: self-loop", a)
	case weight < 1:
		return fmt.Errorf("add edge (%q,%q): weight %d < 1", a, b, weight)
	}
	na, ok := g.nodes[a]
	if !ok {
		return fmt.Errorf("add edge (%q,%q): %w: unknown node %q", a, b, ErrInconsistent, a)
	}
	if _, ok := g.nodes[b]; !ok {
		return fmt.Errorf("add edge (%q,%q): %w: unknown node %q", a, b, ErrInconsistent, b)
	}
	if _, dup := na.adj[b]; dup {
		return fmt.Errorf("add edge (%q,%q): duplicate", a, b)
	}
	g.bump(a, b, weight)
	return nil
}

// RemoveConcept deletes a concept, its frequency and all incident edges
func (g *Graph) RemoveConcept(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	for nb := range n.adj {
		delete(g.nodes[nb].adj, id)
		g.edges--
	}
	delete(g.nodes, id)
	return true
}

// RemoveEdge deletes the edge between a and b if present
func (g *Graph) RemoveEdge(a, b string) bool {
	na, ok := g.nodes[a]
	if !ok {
		return false
	}
	if _, ok := na.adj[b]; !ok {
		return false
	}
	delete(na.adj, b)
	delete(g.nodes[b].adj, a)
	g.edges--
	return true
}

// Has reports whether the concept is present
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Frequency returns the sentence count of a concept
func (g *Graph) Frequency(id string) (int, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return 0, false
	}
	return n.freq, true
}

// Seq returns the first-seen sequence number of a concept, or -1
func (g *Graph) Seq(id string) int {
	n, ok := g.nodes[id]
	if !ok {
		return -1
	}
	return n.seq
}

// Degree returns the number of incident edges
func (g *Graph) Degree(id string) int {
	n, ok := g.nodes[id]
	if !ok {
		return 0
	}
	return len(n.adj)
}

// Weight returns the co-occurrence weight between a and b
func (g *Graph) Weight(a, b string) (int, bool) {
	n, ok := g.nodes[a]
	if !ok {
		return 0, false
	}
	w, ok := n.adj[b]
	return w, ok
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return g.edges }

// Nodes returns all concepts in first-seen order
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return g.nodes[ids[i]].seq < g.nodes[ids[j]].seq
	})
	return ids
}

// Incident returns the edges touching id, From set to id,
// ordered by neighbor first-seen sequence
func (g *Graph) Incident(id string) []Edge {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]Edge, 0, len(n.adj))
	for nb, w := range n.adj {
		out = append(out, Edge{From: id, To: nb, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		return g.nodes[out[i].To].seq < g.nodes[out[j].To].seq
	})
	return out
}

// Edges returns every edge once, ordered by (From seq, To seq)
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, id := range g.Nodes() {
		seq := g.nodes[id].seq
		for _, e := range g.Incident(id) {
			if g.nodes[e.To].seq > seq {
				out = append(out, e)
			}
		}
	}
	return out
}

// Frequencies returns a copy of the frequency side channel
func (g *Graph) Frequencies() map[string]int {
	out := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		out[id] = n.freq
	}
	return out
}
