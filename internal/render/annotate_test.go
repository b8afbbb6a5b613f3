package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/conceptmap/internal/graph"
	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "River Delta", Label("river delta"))
	assert.Equal(t, "Fox", Label("fox"))
	assert.Equal(t, "", Label(""))
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, "<b>Red Fox</b><br>Connections: 3<br>Frequency: 7", Tooltip("red fox", 3, 7))
}

func TestAnnotate(t *testing.T) {
	g := graph.New()
	g.Observe([]string{"red fox", "forest"})
	g.Observe([]string{"red fox", "forest", "river"})
	edgesBefore := g.Edges()

	nodes, edges := Annotate(g, model.PruningConfig{SizeScale: 5, EdgeWidth: 1})

	require.Len(t, nodes, 3)
	assert.Equal(t, model.NodeAnnotation{
		ID:        "red fox",
		Label:     "Red Fox",
		Title:     "<b>Red Fox</b><br>Connections: 2<br>Frequency: 2",
		Value:     2,
		Size:      10,
		Frequency: 2,
	}, nodes[0])
	assert.Equal(t, 1, nodes[2].Frequency)

	require.Len(t, edges, 3)
	for _, e := range edges {
		assert.Equal(t, 1.0, e.Width)
	}
	assert.Equal(t, 2, edges[0].Weight)

	assert.Equal(t, edgesBefore, g.Edges(), "annotation must not mutate the graph")
}

func TestAnnotate_EmptyGraph(t *testing.T) {
	nodes, edges := Annotate(graph.New(), model.PruningConfig{SizeScale: 5, EdgeWidth: 1})
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "knowledge_graph.json")
	report := &model.Report{
		Source: "captions",
		Nodes:  []model.NodeAnnotation{{ID: "fox", Label: "Fox", Value: 1}},
		Edges:  []model.EdgeAnnotation{},
	}

	r := NewRenderer(&bytes.Buffer{})
	require.NoError(t, r.RenderJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "fox", got.Nodes[0].ID)
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderSummary(&model.Report{
		Source: "captions",
		Stats:  model.Stats{AfterDegreeCap: model.StageSize{Nodes: 2, Edges: 1}},
		Nodes: []model.NodeAnnotation{
			{Label: "Fox", Value: 1, Frequency: 4},
			{Label: "Forest", Value: 1, Frequency: 9},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "captions")
	assert.Contains(t, out, "2 nodes, 1 edges")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Forest")), bytes.Index(buf.Bytes(), []byte("Fox ")))
}
