// Package analysis implements the blast-radius traversal: resolving
// changed positions to their enclosing symbol definitions and walking the
// referenced-by relation outward until no new symbols appear.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sprite-ai/blastr/internal/lsproxy"
	"github.com/sprite-ai/blastr/internal/model"
)

// SymbolService is the slice of the lsproxy API the traversal consumes.
// *lsproxy.Client satisfies it; tests substitute fakes.
type SymbolService interface {
	ListFiles(ctx context.Context) ([]string, error)
	DefinitionsInFile(ctx context.Context, req lsproxy.FileSymbolsRequest) (*lsproxy.SymbolResponse, error)
	FindReferences(ctx context.Context, req lsproxy.ReferencesRequest) (*lsproxy.ReferencesResponse, error)
}

// MatchStrategy selects which enclosing symbols a position resolves to
// when definitions nest (a method inside a class, say).
type MatchStrategy int

const (
	// MatchAll returns every enclosing symbol at every nesting level.
	// A position inside a method body resolves to both the method and
	// its class. This is the default.
	MatchAll MatchStrategy = iota
	// MatchInnermost returns only the tightest enclosing symbol.
	MatchInnermost
	// MatchFirst returns the first enclosing symbol in range order,
	// which is the outermost definition.
	MatchFirst
)

func (s MatchStrategy) String() string {
	switch s {
	case MatchAll:
		return "all"
	case MatchInnermost:
		return "innermost"
	case MatchFirst:
		return "first"
	default:
		return "unknown"
	}
}

// ParseMatchStrategy converts a flag value into a MatchStrategy.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch s {
	case "all", "":
		return MatchAll, nil
	case "innermost":
		return MatchInnermost, nil
	case "first":
		return MatchFirst, nil
	default:
		return MatchAll, fmt.Errorf("unknown match strategy %q (want all, innermost, or first)", s)
	}
}

// Analyzer runs symbol location and reference-graph traversal against one
// symbol service. It is single-threaded; every service call blocks the
// worklist until it returns.
type Analyzer struct {
	svc      SymbolService
	strategy MatchStrategy
	log      *slog.Logger

	// OnExpand, when set, is called once per expanded node with the
	// running node count. The api package uses it to stream progress.
	OnExpand func(item *model.HierarchyItem, nodes int)
}

// New creates an Analyzer with the given matching strategy.
func New(svc SymbolService, strategy MatchStrategy, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{svc: svc, strategy: strategy, log: logger}
}
