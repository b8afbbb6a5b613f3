package extract

import (
	"context"
	"encoding/json"

	"github.com/ppiankov/conceptmap/internal/cache"
	"github.com/ppiankov/conceptmap/internal/model"
)

// CachedSource memoizes another source by document content
type CachedSource struct {
	inner Source
	cache cache.Cache
}

// NewCachedSource wraps inner with c
func NewCachedSource(inner Source, c cache.Cache) *CachedSource {
	return &CachedSource{inner: inner, cache: c}
}

func (s *CachedSource) Name() string { return s.inner.Name() }

// Extract returns cached records when the same source has seen the same text.
// Cache failures never fail extraction.
func (s *CachedSource) Extract(ctx context.Context, doc model.Document) ([]model.SentenceConcepts, error) {
	key := cache.CacheKey(s.inner.Name(), doc.Text)

	if data, ok := s.cache.Get(key); ok {
		var recs []model.SentenceConcepts
		if err := json.Unmarshal(data, &recs); err == nil {
			for i := range recs {
				recs[i].Document = doc.ID
			}
			return recs, nil
		}
	}

	recs, err := s.inner.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(recs); err == nil {
		_ = s.cache.Set(key, data, 0)
	}
	return recs, nil
}
