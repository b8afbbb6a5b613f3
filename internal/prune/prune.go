// Package prune shrinks a concept graph to a size fit for display.
//
// The stages run in a fixed order (frequency floor, node cap, degree cap)
// and only ever remove concepts or edges.
package prune

import (
	"fmt"
	"sort"

	"github.com/ppiankov/conceptmap/internal/graph"
	"github.com/ppiankov/conceptmap/internal/model"
)

// ByFrequency removes every concept seen in fewer than minFrequency
// sentences and returns how many were removed
func ByFrequency(g *graph.Graph, minFrequency int) int {
	removed := 0
	for _, id := range g.Nodes() {
		if f, _ := g.Frequency(id); f < minFrequency {
			g.RemoveConcept(id)
			removed++
		}
	}
	return removed
}

// ToNodeCount removes the least frequent concepts until at most maxNodes
// remain. Among equal frequencies the earlier-seen concept goes first.
func ToNodeCount(g *graph.Graph, maxNodes int) int {
	excess := g.NodeCount() - maxNodes
	if excess <= 0 {
		return 0
	}

	order := g.Nodes() // first-seen order, kept by the stable sort
	sort.SliceStable(order, func(i, j int) bool {
		fi, _ := g.Frequency(order[i])
		fj, _ := g.Frequency(order[j])
		return fi < fj
	})

	for _, id := range order[:excess] {
		g.RemoveConcept(id)
	}
	return excess
}

// LimitDegree caps every concept at maxDegree edges in a single sweep over
// the concepts present when it starts, in first-seen order. A concept over
// the cap keeps its heaviest edges; equal weights favour the earlier-seen
// neighbour. Concepts are not revisited when a later sweep step removes one
// of their edges. It returns the number of edges removed.
func LimitDegree(g *graph.Graph, maxDegree int) int {
	removed := 0
	for _, id := range g.Nodes() {
		if g.Degree(id) <= maxDegree {
			continue
		}
		edges := g.Incident(id) // neighbour first-seen order
		sort.SliceStable(edges, func(i, j int) bool {
			return edges[i].Weight > edges[j].Weight
		})
		for _, e := range edges[maxDegree:] {
			if g.RemoveEdge(e.From, e.To) {
				removed++
			}
		}
	}
	return removed
}

// Apply runs the three stages in order, recording sizes into stats, and
// verifies the graph invariants after each one
func Apply(g *graph.Graph, cfg model.PruningConfig, stats *model.Stats) error {
	stages := []struct {
		name string
		run  func()
		size *model.StageSize
	}{
		{"frequency", func() { ByFrequency(g, cfg.MinFrequency) }, &stats.AfterFrequency},
		{"node count", func() { ToNodeCount(g, cfg.MaxNodes) }, &stats.AfterNodeCap},
		{"degree", func() { LimitDegree(g, cfg.MaxDegree) }, &stats.AfterDegreeCap},
	}

	for _, s := range stages {
		s.run()
		if err := g.Check(); err != nil {
			return fmt.Errorf("%s pruning: %w", s.name, err)
		}
		*s.size = model.StageSize{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	}
	return nil
}
