package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sprite-ai/blastr/internal/lsproxy"
	"github.com/sprite-ai/blastr/internal/model"
)

// HierarchyIncoming builds the blast-radius graph from a set of starting
// positions: the symbols enclosing those positions seed a worklist, and
// each popped symbol is expanded by finding its references and the
// symbols enclosing them.
//
// Each node is expanded at most once, so the traversal terminates even
// when the reference graph is cyclic (mutually recursive functions). The
// worklist is a stack, giving depth-first discovery order; the resulting
// node and edge sets do not depend on the discipline.
func (a *Analyzer) HierarchyIncoming(ctx context.Context, starting []model.FilePosition) (*Graph, error) {
	stack, err := a.SymbolsContainingPositions(ctx, starting)
	if err != nil {
		return nil, err
	}

	workspaceFiles, err := a.svc.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workspace: %w", err)
	}
	workspace := make(map[string]bool, len(workspaceFiles))
	for _, f := range workspaceFiles {
		workspace[f] = true
	}

	g := NewGraph()

	// The expanded set is tracked apart from the graph's node set:
	// AddEdge materializes both endpoints as nodes, so a referrer can be
	// in the graph before its own references have been queried.
	visited := make(map[model.PositionKey]bool)

	for len(stack) > 0 {
		symbol := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Re-visit guard: duplicate pushes are reconciled here.
		if visited[symbol.Key()] {
			continue
		}
		visited[symbol.Key()] = true
		g.AddNode(symbol)
		if a.OnExpand != nil {
			a.OnExpand(symbol, g.NodeCount())
		}

		refs, err := a.svc.FindReferences(ctx, lsproxy.ReferencesRequest{
			StartPosition:      symbol.DefinedAt,
			IncludeDeclaration: false,
		})
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", symbol, err)
		}

		byFile, fileOrder := groupByFile(refs.References, workspace)
		if byFile == nil && len(refs.References) > 0 {
			// A reference landed outside the workspace. Treat the symbol
			// as having no discoverable referrers this round rather than
			// aborting the traversal on a partially indexed workspace.
			a.log.Warn("reference outside workspace, dropping referrers for symbol",
				slog.String("symbol", symbol.Name),
				slog.String("defined_at", symbol.DefinedAt.Path))
			continue
		}

		a.log.Info("found references",
			slog.String("symbol", symbol.Name),
			slog.Int("files", len(fileOrder)))

		for _, filePath := range fileOrder {
			enclosing, err := a.SymbolsContainingPositions(ctx, byFile[filePath])
			if err != nil {
				return nil, err
			}
			for _, referrer := range enclosing {
				if referrer.Key() == symbol.Key() {
					// Direct recursion adds no information.
					continue
				}
				g.AddEdge(symbol, referrer)
				if !visited[referrer.Key()] {
					stack = append(stack, referrer)
				}
			}
		}
	}

	return g, nil
}

// groupByFile buckets reference positions by path, keeping first-seen
// file order. It returns nil buckets when any reference is outside the
// workspace listing (the fail-safe in HierarchyIncoming).
func groupByFile(refs []model.FilePosition, workspace map[string]bool) (map[string][]model.FilePosition, []string) {
	byFile := make(map[string][]model.FilePosition)
	var order []string
	for _, ref := range refs {
		if !workspace[ref.Path] {
			return nil, nil
		}
		if _, ok := byFile[ref.Path]; !ok {
			order = append(order, ref.Path)
		}
		byFile[ref.Path] = append(byFile[ref.Path], ref)
	}
	return byFile, order
}
