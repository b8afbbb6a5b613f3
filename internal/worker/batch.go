package worker

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/conceptmap/internal/extract"
	"github.com/ppiankov/conceptmap/internal/model"
	"go.uber.org/zap"
)

// ExtractJob reads one transcript and runs the concept source over it
type ExtractJob struct {
	Index  int
	Path   string
	Source extract.Source
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	doc, err := extract.ReadDocument(j.Path)
	if err != nil {
		return &ExtractResult{Index: j.Index, Path: j.Path, Error: err}
	}

	recs, err := j.Source.Extract(ctx, doc)
	if err != nil {
		return &ExtractResult{Index: j.Index, Path: j.Path, Error: fmt.Errorf("extract %s: %w", j.Path, err)}
	}
	return &ExtractResult{Index: j.Index, Path: j.Path, Sentences: recs}
}

// ExtractResult is the outcome of one document
type ExtractResult struct {
	Index     int
	Path      string
	Sentences []model.SentenceConcepts
	Error     error
}

func (r *ExtractResult) Err() error {
	return r.Error
}

// ExtractionProcessor runs a concept source over many documents concurrently
type ExtractionProcessor struct {
	source      extract.Source
	concurrency int
	logger      *zap.Logger
}

// NewExtractionProcessor creates a new extraction processor
func NewExtractionProcessor(source extract.Source, concurrency int, logger *zap.Logger) *ExtractionProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionProcessor{
		source:      source,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessDocuments extracts every document and returns results in input
// order, whatever order the workers finished in. Failed documents carry
// their error and are logged; they never stop the batch.
func (b *ExtractionProcessor) ProcessDocuments(ctx context.Context, paths []string) []*ExtractResult {
	if len(paths) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, path := range paths {
			pool.Submit(&ExtractJob{Index: i, Path: path, Source: b.source})
		}
		pool.Close()
	}()

	results := pool.Results()

	out := make([]*ExtractResult, 0, len(results))
	for _, r := range results {
		res := r.(*ExtractResult)
		if res.Error != nil {
			b.logger.Warn("skipping document", zap.String("path", res.Path), zap.Error(res.Error))
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}
