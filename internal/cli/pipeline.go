package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/diff"
	"github.com/sprite-ai/blastr/internal/model"
	"github.com/sprite-ai/blastr/internal/report"
	"github.com/sprite-ai/blastr/internal/trace"
	"github.com/sprite-ai/blastr/internal/tui"
)

// radiusPipeline diffs two revisions, seeds traversals from the affected
// lines, and merges the per-file graphs. The raw diff text comes back
// alongside the graph for the prompt report. A non-nil recorder gets one
// event per seed file and expansion.
func radiusPipeline(ctx context.Context, svc analysis.SymbolService, strategy analysis.MatchStrategy,
	repoDir, revA, revB string, rec *trace.Recorder, logger *slog.Logger) (*analysis.Graph, string, error) {

	affected, rawDiff, err := diff.ParseRevisions(repoDir, revA, revB)
	if err != nil {
		return nil, "", err
	}
	if rec != nil {
		rec.Start(revA + ".." + revB)
	}
	if len(affected) == 0 {
		logger.Info("diff touches no lines", slog.String("range", revA+".."+revB))
		return analysis.NewGraph(), rawDiff, nil
	}

	workspaceFiles, err := svc.ListFiles(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("listing workspace: %w", err)
	}

	seeds := analysis.SeedsFromDiff(affected, workspaceFiles)
	for file := range affected {
		if _, ok := seeds[file]; !ok {
			logger.Warn("changed file not indexed by symbol service", slog.String("file", file))
		}
	}

	analyzer := analysis.New(svc, strategy, logger)
	analyzer.OnExpand = func(item *model.HierarchyItem, nodes int) {
		logger.Debug("expanded symbol", slog.String("symbol", item.String()), slog.Int("nodes", nodes))
		if rec != nil {
			rec.Expand(item, nodes)
		}
	}

	merged := analysis.NewGraph()
	for _, file := range slices.Sorted(maps.Keys(seeds)) {
		logger.Info("tracing blast radius", slog.String("file", file), slog.Int("seeds", len(seeds[file])))
		if rec != nil {
			rec.Seed(file, len(seeds[file]))
		}
		g, err := analyzer.HierarchyIncoming(ctx, seeds[file])
		if err != nil {
			return nil, "", err
		}
		merged.Merge(g)
	}

	summary := report.Summary(merged)
	logger.Info(summary)
	if rec != nil {
		rec.Finish(summary)
	}
	return merged, rawDiff, nil
}

// openRecorder creates a trace recorder writing to path, or nil when no
// path was given. The returned closer is safe to defer either way.
func openRecorder(path string) (*trace.Recorder, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating trace file: %w", err)
	}
	return trace.NewRecorder(f), func() { _ = f.Close() }, nil
}

// writeArtifacts renders the prompt, DOT, and JSON reports into outDir.
func writeArtifacts(g *analysis.Graph, rawDiff, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	promptPath := filepath.Join(outDir, "radius.md")
	if err := os.WriteFile(promptPath, []byte(report.Prompt(rawDiff, g)), 0644); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}

	dotPath := filepath.Join(outDir, "radius.dot")
	dotFile, err := os.Create(dotPath)
	if err != nil {
		return fmt.Errorf("creating dot file: %w", err)
	}
	defer dotFile.Close()
	if err := report.WriteDOT(g, dotFile); err != nil {
		return err
	}

	jsonPath := filepath.Join(outDir, "radius.json")
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("creating json file: %w", err)
	}
	defer jsonFile.Close()
	if err := report.WriteJSON(g, jsonFile); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Reports written to %s (radius.md, radius.dot, radius.json)\n", outDir)
	return nil
}

// presentGraph either opens the TUI browser or prints the summary and
// node list.
func presentGraph(g *analysis.Graph, interactive bool) error {
	if interactive {
		return tui.Run(g)
	}

	fmt.Println(report.Summary(g))
	for _, node := range report.OrderNodes(g) {
		callers := len(g.Referrers(node.Key()))
		fmt.Printf("  %-10s %s  ←%d\n", node.Kind, node, callers)
	}
	return nil
}
