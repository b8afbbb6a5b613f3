// Package interchange persists concept graphs.
//
// Topology goes to GraphML with an integer "weight" edge attribute.
// Frequencies are not a graph attribute; they travel in a separate JSON
// object keyed by concept.
package interchange

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/conceptmap/internal/graph"
)

const (
	graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"
	weightKeyID      = "d0"
)

type graphMLDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr,omitempty"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID      string `xml:"id,attr"`
	For     string `xml:"for,attr"`
	Name    string `xml:"attr.name,attr"`
	Type    string `xml:"attr.type,attr"`
	Default string `xml:"default,omitempty"`
}

type graphMLGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID string `xml:"id,attr"`
}

type graphMLEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Topology is the node list (in first-seen order) and weighted edges read
// from a GraphML document
type Topology struct {
	Nodes []string
	Edges []graph.Edge
}

// WriteGraphML encodes the graph topology. Nodes are written in first-seen
// order so that a reload preserves tie-break order.
func WriteGraphML(w io.Writer, g *graph.Graph) error {
	doc := graphMLDoc{
		XMLNS: graphMLNamespace,
		Keys: []graphMLKey{
			{ID: weightKeyID, For: "edge", Name: "weight", Type: "long"},
		},
		Graph: graphMLGraph{EdgeDefault: "undirected"},
	}
	for _, id := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphMLNode{ID: id})
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphMLEdge{
			Source: e.From,
			Target: e.To,
			Data:   []graphMLData{{Key: weightKeyID, Value: strconv.Itoa(e.Weight)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write graphml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write graphml: %w", err)
	}
	return nil
}

// ReadGraphML decodes an undirected GraphML document. An edge without a
// weight takes the key default, or 1 when the key declares none.
func ReadGraphML(r io.Reader) (*Topology, error) {
	var doc graphMLDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graphml: %w", err)
	}
	if strings.EqualFold(doc.Graph.EdgeDefault, "directed") {
		return nil, fmt.Errorf("decode graphml: directed graphs are not supported")
	}

	weightKey := ""
	defaultWeight := 1
	for _, k := range doc.Keys {
		if k.Name != "weight" || (k.For != "edge" && k.For != "all") {
			continue
		}
		weightKey = k.ID
		if d := strings.TrimSpace(k.Default); d != "" {
			w, err := parseWeight(d)
			if err != nil {
				return nil, fmt.Errorf("weight key default: %w", err)
			}
			defaultWeight = w
		}
	}

	top := &Topology{
		Nodes: make([]string, 0, len(doc.Graph.Nodes)),
		Edges: make([]graph.Edge, 0, len(doc.Graph.Edges)),
	}
	for _, n := range doc.Graph.Nodes {
		top.Nodes = append(top.Nodes, n.ID)
	}
	for _, e := range doc.Graph.Edges {
		w := defaultWeight
		for _, d := range e.Data {
			if weightKey != "" && d.Key == weightKey {
				parsed, err := parseWeight(strings.TrimSpace(d.Value))
				if err != nil {
					return nil, fmt.Errorf("edge (%q,%q): %w", e.Source, e.Target, err)
				}
				w = parsed
			}
		}
		top.Edges = append(top.Edges, graph.Edge{From: e.Source, To: e.Target, Weight: w})
	}
	return top, nil
}

// parseWeight accepts integers only, so weights survive a round trip exactly
func parseWeight(s string) (int, error) {
	w, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("weight %q is not an integer", s)
	}
	return w, nil
}
