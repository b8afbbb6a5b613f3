package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/ppiankov/conceptmap/internal/pipeline"
	"github.com/spf13/cobra"
)

var buildTimeout time.Duration

// extractFlags maps build-only flags to config keys
var extractFlags = map[string]string{
	"max-files":   "extract.max_files",
	"provider":    "extract.provider",
	"model":       "extract.model",
	"concurrency": "concurrency.workers",
	"min-length":  "extract.min_concept_length",
}

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <folder>",
	Short: "Build a concept graph from a folder of transcripts",
	Long: `Build reads transcripts (.txt, .html) from a folder and:
- Extracts noun-phrase concepts per sentence
- Builds a co-occurrence graph weighted by shared sentences
- Saves the raw graph (graph.graphml + concept_frequency.json)
- Prunes by frequency, node count and per-node degree
- Writes render-ready node and edge attributes (knowledge_graph.json)

Example:
  conceptmap build ./LastDays_captions
  conceptmap build ./captions -o ./graph_lastdays --max-nodes 200
  conceptmap build ./captions --provider openai --model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, pruningFlags); err != nil {
			return err
		}
		return bindFlags(cmd, extractFlags)
	},
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addPruningFlags(buildCmd)

	d := model.DefaultConfig()
	buildCmd.Flags().Int("max-files", d.Extract.MaxFiles, "maximum number of transcripts to read")
	buildCmd.Flags().String("provider", d.Extract.Provider, "concept source (heuristic, openai)")
	buildCmd.Flags().String("model", d.Extract.Model, "model name for the openai source")
	buildCmd.Flags().Int("concurrency", d.Concurrency.Workers, "number of concurrent extraction workers")
	buildCmd.Flags().Int("min-length", d.Extract.MinConceptLength, "minimum concept length in characters")
	buildCmd.Flags().Bool("no-cache", false, "disable the extraction cache")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 30*time.Minute, "total timeout for extraction")
}

func runBuild(cmd *cobra.Command, args []string) error {
	folder := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Conceptmap Build\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input folder: %s\n", folder)
	fmt.Fprintf(os.Stderr, "  Source:       %s\n", cfg.Extract.Provider)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	source, err := pipeline.NewSource(cfg)
	if err != nil {
		return fmt.Errorf("create concept source: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, source, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "⚙️  Extracting concepts and building graph...\n")
	result, err := p.Build(ctx, folder, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	s := result.Report.Stats
	fmt.Fprintf(os.Stderr, "✓ Processed %d documents (%d failed)\n", s.Documents, s.FailedDocuments)
	fmt.Fprintf(os.Stderr, "✓ Built graph: %d nodes, %d edges\n", s.Built.Nodes, s.Built.Edges)
	fmt.Fprintf(os.Stderr, "✓ After limiting: %d nodes, %d edges\n", result.Graph.NodeCount(), result.Graph.EdgeCount())

	if _, err := p.RenderReport(result.Report, cfg.Output.Dir, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
