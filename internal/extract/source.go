// Package extract provides concept stream sources: capabilities that turn a
// transcript into per-sentence sets of normalized concepts.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/conceptmap/internal/model"
)

// Source extracts sentence concept sets from a document.
// Implementations must be safe for concurrent use.
type Source interface {
	// Name identifies the source; it is part of cache keys
	Name() string

	// Extract returns one record per sentence that has at least one concept
	Extract(ctx context.Context, doc model.Document) ([]model.SentenceConcepts, error)
}

// StaticSource serves fixed records keyed by document ID
type StaticSource struct {
	Records map[string][]model.SentenceConcepts
}

// NewStaticSource creates a source that returns recs for their Document IDs
func NewStaticSource(recs []model.SentenceConcepts) *StaticSource {
	s := &StaticSource{Records: make(map[string][]model.SentenceConcepts)}
	for _, r := range recs {
		s.Records[r.Document] = append(s.Records[r.Document], r)
	}
	return s
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Extract(ctx context.Context, doc model.Document) ([]model.SentenceConcepts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Records[doc.ID], nil
}

// Options configures the built-in sources
type Options struct {
	Provider         string
	Model            string
	APIKey           string
	BaseURL          string
	MinConceptLength int
	Limiter          RateLimiter
}

// NewSource creates the source named by opts.Provider
func NewSource(opts Options) (Source, error) {
	norm := NewNormalizer(opts.MinConceptLength)

	switch strings.ToLower(opts.Provider) {
	case "", "heuristic":
		return NewHeuristicSource(norm), nil
	case "openai":
		return NewOpenAISource(OpenAIConfig{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
		}, norm, opts.Limiter)
	default:
		return nil, fmt.Errorf("unknown concept source: %s (supported: heuristic, openai)", opts.Provider)
	}
}
