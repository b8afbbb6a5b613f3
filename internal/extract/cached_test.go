package extract

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/conceptmap/internal/cache"
	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int32
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Extract(ctx context.Context, doc model.Document) ([]model.SentenceConcepts, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return []model.SentenceConcepts{{Document: doc.ID, Concepts: []string{"fox", "forest"}}}, nil
}

func TestCachedSource_HitsByContent(t *testing.T) {
	inner := &countingSource{}
	src := NewCachedSource(inner, cache.NewMemoryCache(time.Minute, time.Minute))
	ctx := context.Background()

	first, err := src.Extract(ctx, model.Document{ID: "a.txt", Text: "same text"})
	require.NoError(t, err)
	second, err := src.Extract(ctx, model.Document{ID: "b.txt", Text: "same text"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, first[0].Concepts, second[0].Concepts)
	assert.Equal(t, "b.txt", second[0].Document)

	_, err = src.Extract(ctx, model.Document{ID: "c.txt", Text: "other text"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("boom")}
	src := NewCachedSource(inner, cache.NewMemoryCache(time.Minute, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := src.Extract(context.Background(), model.Document{Text: "t"})
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCachedSource_KeyFollowsMinLength(t *testing.T) {
	shared := cache.NewMemoryCache(time.Minute, time.Minute)
	doc := model.Document{ID: "d", Text: "The old dog sleeps near the barn."}
	ctx := context.Background()

	short := NewCachedSource(NewHeuristicSource(NewNormalizer(3)), shared)
	recs, err := short.Extract(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	long := NewCachedSource(NewHeuristicSource(NewNormalizer(50)), shared)
	recs, err = long.Extract(ctx, doc)
	require.NoError(t, err)
	assert.Empty(t, recs, "results cached under a shorter minimum length must not be reused")
}
