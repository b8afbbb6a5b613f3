// Package render turns a pruned concept graph into render-ready output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/conceptmap/internal/model"
)

// Renderer writes reports to disk and prints summaries
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer printing summaries to out (stdout if nil)
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints stage sizes and the most connected concepts
func (r *Renderer) RenderSummary(report *model.Report) {
	s := report.Stats
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(r.out, "  Concept Graph: %s\n", report.Source)
	fmt.Fprintf(r.out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(r.out, "\n")
	if s.Documents > 0 {
		fmt.Fprintf(r.out, "  Documents:        %d (%d failed)\n", s.Documents, s.FailedDocuments)
		fmt.Fprintf(r.out, "  Sentences:        %d (%d skipped)\n", s.Sentences, s.SkippedRecords)
	}
	fmt.Fprintf(r.out, "  Built:            %d nodes, %d edges\n", s.Built.Nodes, s.Built.Edges)
	fmt.Fprintf(r.out, "  Frequency >= %-3d  %d nodes, %d edges\n", report.Pruning.MinFrequency, s.AfterFrequency.Nodes, s.AfterFrequency.Edges)
	fmt.Fprintf(r.out, "  Nodes <= %-7d  %d nodes, %d edges\n", report.Pruning.MaxNodes, s.AfterNodeCap.Nodes, s.AfterNodeCap.Edges)
	fmt.Fprintf(r.out, "  Degree <= %-6d  %d nodes, %d edges\n", report.Pruning.MaxDegree, s.AfterDegreeCap.Nodes, s.AfterDegreeCap.Edges)

	top := topNodes(report.Nodes, 10)
	if len(top) > 0 {
		fmt.Fprintf(r.out, "\n  Most connected:\n")
		for _, n := range top {
			fmt.Fprintf(r.out, "    %-30s %3d connections, frequency %d\n", truncate(n.Label, 30), n.Value, n.Frequency)
		}
	}
	fmt.Fprintf(r.out, "\n")
}

func topNodes(nodes []model.NodeAnnotation, n int) []model.NodeAnnotation {
	sorted := append([]model.NodeAnnotation(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Frequency > sorted[j].Frequency
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
