package render

import (
	"fmt"

	"github.com/ppiankov/conceptmap/internal/graph"
	"github.com/ppiankov/conceptmap/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label returns the display form of a concept ("river delta" -> "River Delta")
func Label(concept string) string {
	return cases.Title(language.Und).String(concept)
}

// Tooltip builds the hover markup shown for a concept
func Tooltip(concept string, degree, frequency int) string {
	return tooltip(Label(concept), degree, frequency)
}

func tooltip(label string, degree, frequency int) string {
	return fmt.Sprintf("<b>%s</b><br>Connections: %d<br>Frequency: %d", label, degree, frequency)
}

// Annotate derives per-node and per-edge display attributes from a pruned
// graph. The graph is only read.
func Annotate(g *graph.Graph, cfg model.PruningConfig) ([]model.NodeAnnotation, []model.EdgeAnnotation) {
	caser := cases.Title(language.Und)

	nodes := make([]model.NodeAnnotation, 0, g.NodeCount())
	for _, id := range g.Nodes() {
		degree := g.Degree(id)
		freq, _ := g.Frequency(id)
		label := caser.String(id)
		nodes = append(nodes, model.NodeAnnotation{
			ID:        id,
			Label:     label,
			Title:     tooltip(label, degree, freq),
			Value:     degree,
			Size:      float64(degree) * cfg.SizeScale,
			Frequency: freq,
		})
	}

	edges := make([]model.EdgeAnnotation, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edges = append(edges, model.EdgeAnnotation{
			From:   e.From,
			To:     e.To,
			Weight: e.Weight,
			Width:  cfg.EdgeWidth,
		})
	}

	return nodes, edges
}
