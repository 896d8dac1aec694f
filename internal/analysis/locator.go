package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sprite-ai/blastr/internal/lsproxy"
	"github.com/sprite-ai/blastr/internal/model"
)

// ErrMixedPaths is returned when the target positions span more than one
// file. Callers group positions by file before locating.
var ErrMixedPaths = errors.New("target positions span multiple files")

// unknownName is the sentinel the symbol service uses for symbols it
// could not name.
const unknownName = "<unknown>"

type symbolContext struct {
	sym model.Symbol
	ctx model.CodeContext
}

// SymbolsContainingPositions returns a HierarchyItem for every symbol
// definition whose body encloses at least one of the target positions.
// All positions must be in the same file.
//
// A file missing from the workspace listing is not an error: the result
// is empty and a warning is logged, since references can point at files
// the service does not index.
func (a *Analyzer) SymbolsContainingPositions(ctx context.Context, positions []model.FilePosition) ([]*model.HierarchyItem, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	filePath := positions[0].Path
	for _, p := range positions[1:] {
		if p.Path != filePath {
			return nil, fmt.Errorf("%w: %s and %s", ErrMixedPaths, filePath, p.Path)
		}
	}

	files, err := a.svc.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("locating symbols in %s: %w", filePath, err)
	}
	if !slices.Contains(files, filePath) {
		a.log.Warn("file not found in workspace", slog.String("file", filePath))
		return nil, nil
	}

	resp, err := a.svc.DefinitionsInFile(ctx, lsproxy.FileSymbolsRequest{
		FilePath:          filePath,
		IncludeSourceCode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("locating symbols in %s: %w", filePath, err)
	}
	if resp.SourceCodeContext == nil {
		return nil, nil
	}

	pairs := a.candidatePairs(resp, positions)

	// Sorting affects only iteration order; the result set is deduped by
	// definition position either way.
	slices.SortFunc(pairs, func(x, y symbolContext) int {
		return x.ctx.Range.Compare(y.ctx.Range)
	})

	seen := make(map[model.PositionKey]*model.HierarchyItem)
	var order []model.PositionKey

	add := func(p symbolContext) {
		key := p.sym.StartPosition.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = &model.HierarchyItem{
			Name:      p.sym.Name,
			Kind:      p.sym.Kind,
			DefinedAt: p.sym.StartPosition,
			Context:   p.ctx,
		}
		order = append(order, key)
	}

	for _, target := range positions {
		switch a.strategy {
		case MatchAll:
			for _, p := range pairs {
				if p.ctx.Range.Contains(target) {
					add(p)
				}
			}
		case MatchFirst:
			for _, p := range pairs {
				if p.ctx.Range.Contains(target) {
					add(p)
					break
				}
			}
		case MatchInnermost:
			// Pairs are sorted by range start, so the last containing
			// pair is the tightest enclosure.
			last := -1
			for i, p := range pairs {
				if p.ctx.Range.Contains(target) {
					last = i
				}
			}
			if last >= 0 {
				add(pairs[last])
			}
		}
	}

	items := make([]*model.HierarchyItem, 0, len(order))
	for _, key := range order {
		items = append(items, seen[key])
	}
	return items, nil
}

// candidatePairs zips symbols with their contexts and drops the ones that
// cannot enclose any target: unnamed symbols and symbols that start
// strictly after every target position.
func (a *Analyzer) candidatePairs(resp *lsproxy.SymbolResponse, positions []model.FilePosition) []symbolContext {
	n := min(len(resp.Symbols), len(resp.SourceCodeContext))
	pairs := make([]symbolContext, 0, n)

	for i := 0; i < n; i++ {
		sym := resp.Symbols[i]
		if sym.Name == "" || sym.Name == unknownName {
			continue
		}
		startsAfterAll := true
		for _, target := range positions {
			if !sym.StartPosition.After(target) {
				startsAfterAll = false
				break
			}
		}
		if startsAfterAll {
			continue
		}
		pairs = append(pairs, symbolContext{sym: sym, ctx: resp.SourceCodeContext[i]})
	}
	return pairs
}
