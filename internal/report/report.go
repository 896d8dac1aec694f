// Package report renders a computed blast-radius graph for downstream
// consumers: a markdown prompt document, a DOT graph, and plain JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/model"
)

// NumberedSource renders a code context as a fenced block with absolute
// line numbers, so a reader can match it back to the file.
func NumberedSource(ctx model.CodeContext) string {
	lines := strings.Split(ctx.SourceCode, "\n")
	start := ctx.Range.Start.Line

	var b strings.Builder
	b.WriteString("```\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%d| %s\n", start+uint32(i), line)
	}
	b.WriteString("```")
	return b.String()
}

// Prompt builds the markdown impact document: the raw diff followed by
// the source context of every affected symbol, callers ordered after
// their callees where the graph allows it.
func Prompt(rawDiff string, g *analysis.Graph) string {
	var b strings.Builder
	b.WriteString("# Diff of the change\n```\n")
	b.WriteString(strings.TrimRight(rawDiff, "\n"))
	b.WriteString("\n```\n# Call hierarchy \n")

	for _, node := range OrderNodes(g) {
		fmt.Fprintf(&b, "## %s\n\n", node.Context.Range.Path)
		b.WriteString(NumberedSource(node.Context))
		b.WriteString("\n\n")
	}
	return b.String()
}

// Summary returns a one-line description of the graph.
func Summary(g *analysis.Graph) string {
	return fmt.Sprintf("blast radius: %d symbols, %d reference edges", g.NodeCount(), g.EdgeCount())
}

// OrderNodes returns the nodes topologically sorted along the
// referenced-by edges, so changed symbols come before their callers.
// Cyclic graphs (mutual recursion) have no topological order; those fall
// back to the stable position order.
func OrderNodes(g *analysis.Graph) []*model.HierarchyItem {
	dg, err := toDirected(g)
	if err != nil {
		return g.Nodes()
	}
	order, err := graph.TopologicalSort(dg)
	if err != nil {
		return g.Nodes()
	}

	byKey := make(map[model.PositionKey]*model.HierarchyItem, g.NodeCount())
	for _, node := range g.Nodes() {
		byKey[node.Key()] = node
	}
	nodes := make([]*model.HierarchyItem, 0, len(order))
	for _, key := range order {
		nodes = append(nodes, byKey[key])
	}
	return nodes
}

// toDirected copies the accumulator into a dominikbraun graph keyed by
// definition position.
func toDirected(g *analysis.Graph) (graph.Graph[model.PositionKey, *model.HierarchyItem], error) {
	dg := graph.New(func(item *model.HierarchyItem) model.PositionKey {
		return item.Key()
	}, graph.Directed())

	for _, node := range g.Nodes() {
		if err := dg.AddVertex(node,
			graph.VertexAttribute("label", node.String()),
			graph.VertexAttribute("kind", node.Kind),
		); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if err := dg.AddEdge(e.From.Key(), e.To.Key()); err != nil {
			return nil, err
		}
	}
	return dg, nil
}
