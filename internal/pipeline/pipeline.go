// Package pipeline orchestrates a concept graph run:
// extract → build → persist → prune → annotate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/conceptmap/internal/cache"
	"github.com/ppiankov/conceptmap/internal/extract"
	"github.com/ppiankov/conceptmap/internal/graph"
	"github.com/ppiankov/conceptmap/internal/interchange"
	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/ppiankov/conceptmap/internal/prune"
	"github.com/ppiankov/conceptmap/internal/render"
	"github.com/ppiankov/conceptmap/internal/worker"
	"go.uber.org/zap"
)

// ReportFile is the annotation output written next to the graph artifacts
const ReportFile = "knowledge_graph.json"

// Pipeline owns one run's graph from construction through annotation
type Pipeline struct {
	source   extract.Source
	renderer *render.Renderer
	logger   *zap.Logger
	config   *model.Config
}

// NewPipeline validates cfg and wires a pipeline around source.
// Configuration errors are returned before any input is touched.
func NewPipeline(cfg *model.Config, source extract.Source, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("pipeline: concept source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		source:   source,
		renderer: render.NewRenderer(nil),
		logger:   logger,
		config:   cfg,
	}, nil
}

// NewDrawPipeline wires a pipeline that only re-prunes persisted graphs.
// Only the pruning limits are validated; Build is unavailable.
func NewDrawPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Pruning.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		renderer: render.NewRenderer(nil),
		logger:   logger,
		config:   cfg,
	}, nil
}

// NewSource builds the configured concept source, rate-limited and cached
// as the configuration asks
func NewSource(cfg *model.Config) (extract.Source, error) {
	src, err := extract.NewSource(extract.Options{
		Provider:         cfg.Extract.Provider,
		Model:            cfg.Extract.Model,
		APIKey:           cfg.Extract.APIKey,
		BaseURL:          cfg.Extract.BaseURL,
		MinConceptLength: cfg.Extract.MinConceptLength,
		Limiter:          worker.NewLimiter(cfg.Extract.RequestsPerSecond, cfg.Extract.BurstSize),
	})
	if err != nil {
		return nil, err
	}

	if c := cache.FromConfig(cfg.Cache); c != nil {
		src = extract.NewCachedSource(src, c)
	}
	return src, nil
}

// Result is the outcome of a run
type Result struct {
	Graph  *graph.Graph
	Report *model.Report
}

// Build extracts every document under dir, builds the raw graph, persists it
// into workDir, and then prunes and annotates it
func (p *Pipeline) Build(ctx context.Context, dir, workDir string) (*Result, error) {
	if p.source == nil {
		return nil, errors.New("pipeline: build needs a concept source")
	}
	paths, err := extract.ListDocuments(dir, p.config.Extract.MaxFiles)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	p.logger.Info("processing documents", zap.Int("files", len(paths)), zap.String("dir", dir))

	stats := model.Stats{Documents: len(paths)}
	processor := worker.NewExtractionProcessor(p.source, p.config.Concurrency.Workers, p.logger)
	results := processor.ProcessDocuments(ctx, paths)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	// Results arrive in input order, so first-seen sequence numbers (and
	// with them every tie-break) are reproducible across runs.
	builder := graph.NewBuilder(p.logger)
	for _, res := range results {
		if res.Error != nil {
			stats.FailedDocuments++
			continue
		}
		builder.AddAll(res.Sentences)
	}
	stats.Sentences = builder.Sentences()
	stats.SkippedRecords = builder.Skipped()

	g := builder.Graph()
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	stats.Built = model.StageSize{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	p.logger.Info("graph built", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))

	if workDir != "" {
		if err := interchange.Save(workDir, g); err != nil {
			return nil, fmt.Errorf("save graph: %w", err)
		}
		p.logger.Info("saved graph", zap.String("dir", workDir))
	}

	return p.finish(g, dir, stats)
}

// Draw reloads a persisted graph and re-runs pruning and annotation
func (p *Pipeline) Draw(graphPath, freqPath string) (*Result, error) {
	g, err := interchange.Load(graphPath, freqPath)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	stats := model.Stats{Built: model.StageSize{Nodes: g.NodeCount(), Edges: g.EdgeCount()}}
	return p.finish(g, graphPath, stats)
}

func (p *Pipeline) finish(g *graph.Graph, source string, stats model.Stats) (*Result, error) {
	if err := prune.Apply(g, p.config.Pruning, &stats); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	p.logger.Info("graph pruned",
		zap.String("run_id", runID),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("min_frequency", p.config.Pruning.MinFrequency),
		zap.Int("max_nodes", p.config.Pruning.MaxNodes),
		zap.Int("max_degree", p.config.Pruning.MaxDegree))

	nodes, edges := render.Annotate(g, p.config.Pruning)
	return &Result{
		Graph: g,
		Report: &model.Report{
			RunID:       runID,
			GeneratedAt: time.Now().UTC(),
			Source:      source,
			Pruning:     p.config.Pruning,
			Stats:       stats,
			Nodes:       nodes,
			Edges:       edges,
		},
	}, nil
}

// RenderReport writes the annotation JSON into outDir and prints a summary
func (p *Pipeline) RenderReport(report *model.Report, outDir string, verbose bool) (string, error) {
	path := filepath.Join(outDir, ReportFile)
	if err := p.renderer.RenderJSON(report, path); err != nil {
		return "", fmt.Errorf("render JSON: %w", err)
	}
	if verbose {
		fmt.Printf("✓ Wrote JSON: %s\n", path)
	}

	p.renderer.RenderSummary(report)
	return path, nil
}
