package graph

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sentences(sets ...[]string) []model.SentenceConcepts {
	out := make([]model.SentenceConcepts, len(sets))
	for i, s := range sets {
		out[i] = model.SentenceConcepts{Document: "doc", Sentence: i, Concepts: s}
	}
	return out
}

func TestBuild_FoxForestRiver(t *testing.T) {
	g := Build(sentences(
		[]string{"fox", "forest"},
		[]string{"fox", "forest", "river"},
		[]string{"river"},
	), zap.NewNop())

	assert.Equal(t, map[string]int{"fox": 2, "forest": 2, "river": 2}, g.Frequencies())
	assert.Equal(t, 3, g.EdgeCount())

	w, ok := g.Weight("fox", "forest")
	require.True(t, ok)
	assert.Equal(t, 2, w)
	w, _ = g.Weight("fox", "river")
	assert.Equal(t, 1, w)
	w, _ = g.Weight("river", "forest")
	assert.Equal(t, 1, w)

	require.NoError(t, g.Check())
}

func TestBuild_SingleConceptUpdatesFrequencyOnly(t *testing.T) {
	g := Build(sentences([]string{"lonely"}, []string{"lonely"}), nil)

	f, ok := g.Frequency("lonely")
	require.True(t, ok)
	assert.Equal(t, 2, f)
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 0, g.Degree("lonely"))
}

func TestBuild_NoSelfLoops(t *testing.T) {
	g := Build(sentences([]string{"echo", "echo", "sound"}), nil)

	_, ok := g.Weight("echo", "echo")
	assert.False(t, ok)
	f, _ := g.Frequency("echo")
	assert.Equal(t, 1, f, "duplicates within a sentence count once")
	assert.Equal(t, 1, g.EdgeCount())
	require.NoError(t, g.Check())
}

func TestBuild_EmptySetsIgnored(t *testing.T) {
	g := Build(sentences(nil, []string{}), nil)
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestBuild_Commutative(t *testing.T) {
	recs := sentences(
		[]string{"a", "b", "c"},
		[]string{"b", "c"},
		[]string{"c", "d"},
		[]string{"a"},
		[]string{"d", "a", "b"},
		[]string{"e"},
	)
	want := Build(recs, nil)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.SentenceConcepts(nil), recs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Build(shuffled, nil)

		assert.Equal(t, want.Frequencies(), got.Frequencies())
		assert.Equal(t, want.EdgeCount(), got.EdgeCount())
		for _, e := range want.Edges() {
			w, ok := got.Weight(e.From, e.To)
			require.True(t, ok)
			assert.Equal(t, e.Weight, w)
		}
	}
}

func TestBuilder_ConcurrentAdd(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var recs []model.SentenceConcepts
	for i := 0; i < 400; i++ {
		n := 1 + rng.Intn(4)
		set := make([]string, n)
		for j := range set {
			set[j] = fmt.Sprintf("c%d", rng.Intn(12))
		}
		recs = append(recs, model.SentenceConcepts{Document: "doc", Sentence: i, Concepts: set})
	}
	// a malformed record exercises the skip path under contention
	recs = append(recs, model.SentenceConcepts{Sentence: -1, Concepts: []string{"c1"}})

	want := Build(recs, nil)

	shuffled := append([]model.SentenceConcepts(nil), recs...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	const writers = 8
	b := NewBuilder(zap.NewNop())
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(shuffled); i += writers {
				b.Add(shuffled[i])
			}
		}(w)
	}
	wg.Wait()

	got := b.Graph()
	require.NoError(t, got.Check())
	assert.Equal(t, 400, b.Sentences())
	assert.Equal(t, 1, b.Skipped())
	assert.Equal(t, want.Frequencies(), got.Frequencies())
	assert.Equal(t, want.EdgeCount(), got.EdgeCount())
	for _, e := range want.Edges() {
		w, ok := got.Weight(e.From, e.To)
		require.True(t, ok, "missing edge %s-%s", e.From, e.To)
		assert.Equal(t, e.Weight, w)
	}
}

func TestBuilder_SkipsMalformed(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	assert.False(t, b.Add(model.SentenceConcepts{Sentence: -1, Concepts: []string{"x"}}))
	assert.False(t, b.Add(model.SentenceConcepts{Sentence: 0, Concepts: []string{"x", "  "}}))
	assert.True(t, b.Add(model.SentenceConcepts{Sentence: 1, Concepts: []string{"x", "y"}}))

	assert.Equal(t, 2, b.Skipped())
	assert.Equal(t, 1, b.Sentences())
	assert.Equal(t, 2, b.Graph().NodeCount())
}

func TestGraph_FirstSeenOrder(t *testing.T) {
	g := Build(sentences([]string{"b", "a"}, []string{"c", "a"}), nil)
	assert.Equal(t, []string{"b", "a", "c"}, g.Nodes())
	assert.Equal(t, []Edge{
		{From: "b", To: "a", Weight: 1},
		{From: "a", To: "c", Weight: 1},
	}, g.Edges())
}

func TestGraph_RemoveConceptDropsEdges(t *testing.T) {
	g := Build(sentences([]string{"a", "b", "c"}), nil)
	require.True(t, g.RemoveConcept("b"))
	assert.False(t, g.Has("b"))
	assert.Equal(t, 1, g.EdgeCount())
	_, ok := g.Frequencies()["b"]
	assert.False(t, ok)
	require.NoError(t, g.Check())

	assert.False(t, g.RemoveConcept("b"))
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := Build(sentences([]string{"a", "b"}), nil)
	require.True(t, g.RemoveEdge("b", "a"))
	assert.False(t, g.RemoveEdge("a", "b"))
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 2, g.NodeCount())
}

func TestAssemble(t *testing.T) {
	g, err := Assemble(
		[]string{"x", "y"},
		[]Edge{{From: "x", To: "y", Weight: 4}},
		map[string]int{"x": 5, "y": 4},
	)
	require.NoError(t, err)
	w, _ := g.Weight("y", "x")
	assert.Equal(t, 4, w)
	assert.Equal(t, 0, g.Seq("x"))
	assert.Equal(t, 1, g.Seq("y"))
}

func TestAssemble_Inconsistent(t *testing.T) {
	_, err := Assemble([]string{"x", "y"}, nil, map[string]int{"x": 1})
	assert.True(t, errors.Is(err, ErrInconsistent))

	_, err = Assemble([]string{"x"}, nil, map[string]int{"z": 1})
	assert.True(t, errors.Is(err, ErrInconsistent))

	_, err = Assemble([]string{"x"}, []Edge{{From: "x", To: "ghost", Weight: 1}}, map[string]int{"x": 1})
	assert.True(t, errors.Is(err, ErrInconsistent))
}

func TestAddEdge_Rejects(t *testing.T) {
	g := New()
	require.NoError(t, g.AddConcept("a", 1))
	require.NoError(t, g.AddConcept("b", 1))

	assert.Error(t, g.AddEdge("a", "a", 1))
	assert.Error(t, g.AddEdge("a", "b", 0))
	require.NoError(t, g.AddEdge("a", "b", 1))
	assert.Error(t, g.AddEdge("b", "a", 1))
	assert.Error(t, g.AddConcept("a", 3))
}
