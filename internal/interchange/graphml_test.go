package interchange

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/conceptmap/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *graph.Graph {
	g := graph.New()
	g.Observe([]string{"fox", "forest"})
	g.Observe([]string{"fox", "forest", "river"})
	g.Observe([]string{"river"})
	g.Observe([]string{"salmon & trout"})
	return g
}

func TestGraphML_RoundTrip(t *testing.T) {
	g := sample()

	var buf bytes.Buffer
	require.NoError(t, WriteGraphML(&buf, g))
	assert.Contains(t, buf.String(), `attr.name="weight"`)
	assert.Contains(t, buf.String(), `attr.type="long"`)

	top, err := ReadGraphML(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), top.Nodes)
	assert.Equal(t, g.Edges(), top.Edges)

	back, err := graph.Assemble(top.Nodes, top.Edges, g.Frequencies())
	require.NoError(t, err)
	assert.Equal(t, g.Frequencies(), back.Frequencies())
	assert.Equal(t, g.Edges(), back.Edges())
}

func TestReadGraphML_ForeignDocument(t *testing.T) {
	doc := `<?xml version='1.0' encoding='utf-8'?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <key id="w" for="edge" attr.name="weight" attr.type="long"><default>3</default></key>
  <graph edgedefault="undirected">
    <node id="alpha"/>
    <node id="beta"/>
    <node id="gamma"/>
    <edge source="alpha" target="beta"><data key="w">7</data></edge>
    <edge source="beta" target="gamma"/>
  </graph>
</graphml>`

	top, err := ReadGraphML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, top.Nodes)
	assert.Equal(t, []graph.Edge{
		{From: "alpha", To: "beta", Weight: 7},
		{From: "beta", To: "gamma", Weight: 3},
	}, top.Edges)
}

func TestReadGraphML_RejectsFloatWeight(t *testing.T) {
	doc := `<graphml><key id="d0" for="edge" attr.name="weight" attr.type="double"/>
<graph edgedefault="undirected"><node id="a"/><node id="b"/>
<edge source="a" target="b"><data key="d0">1.5</data></edge></graph></graphml>`

	_, err := ReadGraphML(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestReadGraphML_RejectsDirected(t *testing.T) {
	_, err := ReadGraphML(strings.NewReader(`<graphml><graph edgedefault="directed"/></graphml>`))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	g := sample()
	require.NoError(t, Save(dir, g))

	back, err := Load(filepath.Join(dir, GraphFile), filepath.Join(dir, FrequencyFile))
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	assert.Equal(t, g.Edges(), back.Edges())
	assert.Equal(t, g.Frequencies(), back.Frequencies())
}

func TestLoad_MismatchedSideChannel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, sample()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FrequencyFile), []byte(`{"fox": 2}`), 0644))

	_, err := Load(filepath.Join(dir, GraphFile), filepath.Join(dir, FrequencyFile))
	assert.True(t, errors.Is(err, graph.ErrInconsistent))
}

func TestFrequencies_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := map[string]int{"fox": 2, "river": 0}
	require.NoError(t, WriteFrequencies(&buf, in))

	out, err := ReadFrequencies(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
