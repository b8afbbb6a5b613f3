package graph

import (
	"strings"
	"sync"

	"github.com/ppiankov/conceptmap/internal/model"
	"go.uber.org/zap"
)

// Builder accumulates sentence concept sets into a Graph.
// Add is safe to call from several goroutines; writes are serialized.
type Builder struct {
	mu        sync.Mutex
	graph     *Graph
	logger    *zap.Logger
	sentences int
	skipped   int
}

// NewBuilder creates a builder over an empty graph
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		graph:  New(),
		logger: logger,
	}
}

// Add folds one sentence record into the graph. Records with a negative
// sentence index or a blank concept are skipped with a warning; records
// with no concepts are ignored. It reports whether the record was used.
func (b *Builder) Add(rec model.SentenceConcepts) bool {
	if len(rec.Concepts) == 0 {
		return false
	}
	if reason := malformed(rec); reason != "" {
		b.mu.Lock()
		b.skipped++
		b.mu.Unlock()
		b.logger.Warn("skipping malformed sentence record",
			zap.String("document", rec.Document),
			zap.Int("sentence", rec.Sentence),
			zap.String("reason", reason))
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.graph.Observe(rec.Concepts)
	b.sentences++
	return true
}

// AddAll folds a batch of records in order
func (b *Builder) AddAll(recs []model.SentenceConcepts) {
	for _, rec := range recs {
		b.Add(rec)
	}
}

func malformed(rec model.SentenceConcepts) string {
	if rec.Sentence < 0 {
		return "negative sentence index"
	}
	for _, c := range rec.Concepts {
		if strings.TrimSpace(c) == "" {
			return "blank concept"
		}
	}
	return ""
}

// Graph returns the accumulated graph. The builder must not be used afterwards.
func (b *Builder) Graph() *Graph {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graph
}

// Sentences returns how many records contributed to the graph
func (b *Builder) Sentences() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sentences
}

// Skipped returns how many malformed records were dropped
func (b *Builder) Skipped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.skipped
}

// Build is a convenience for building a graph from a fixed record set
func Build(recs []model.SentenceConcepts, logger *zap.Logger) *Graph {
	b := NewBuilder(logger)
	b.AddAll(recs)
	return b.Graph()
}
