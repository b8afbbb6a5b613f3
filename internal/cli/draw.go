package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/conceptmap/internal/interchange"
	"github.com/ppiankov/conceptmap/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	drawGraph string
	drawFreq  string
)

// drawCmd represents the draw command
var drawCmd = &cobra.Command{
	Use:   "draw [working-dir]",
	Short: "Re-prune and annotate a previously built graph",
	Long: `Draw reloads graph.graphml and concept_frequency.json written by build and
re-runs pruning and annotation, so limits can be tuned without
re-extracting concepts.

Example:
  conceptmap draw ./graph_lastdays --max-nodes 200
  conceptmap draw --graph g.graphml --freq freq.json -o ./out`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, pruningFlags)
	},
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)
	addPruningFlags(drawCmd)

	drawCmd.Flags().StringVar(&drawGraph, "graph", "", "GraphML file (default: <working-dir>/graph.graphml)")
	drawCmd.Flags().StringVar(&drawFreq, "freq", "", "frequency JSON file (default: <working-dir>/concept_frequency.json)")
}

func runDraw(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Pruning.Validate(); err != nil {
		return err
	}

	workDir := cfg.Output.Dir
	if len(args) == 1 {
		workDir = args[0]
		if !cmd.Flags().Changed("output-dir") {
			cfg.Output.Dir = workDir
		}
	}
	graphPath := drawGraph
	if graphPath == "" {
		graphPath = filepath.Join(workDir, interchange.GraphFile)
	}
	freqPath := drawFreq
	if freqPath == "" {
		freqPath = filepath.Join(workDir, interchange.FrequencyFile)
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.NewDrawPipeline(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Loading %s and %s...\n", graphPath, freqPath)
	}
	result, err := p.Draw(graphPath, freqPath)
	if err != nil {
		return fmt.Errorf("draw failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ After limiting: %d nodes, %d edges\n", result.Graph.NodeCount(), result.Graph.EdgeCount())

	if _, err := p.RenderReport(result.Report, cfg.Output.Dir, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
