package analysis

import (
	"slices"

	"github.com/sprite-ai/blastr/internal/model"
)

// Graph accumulates the node and edge sets of one traversal. Both sets
// only ever grow during a run; there is no concurrent access.
type Graph struct {
	nodes map[model.PositionKey]*model.HierarchyItem
	edges map[model.EdgeKey]model.Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[model.PositionKey]*model.HierarchyItem),
		edges: make(map[model.EdgeKey]model.Edge),
	}
}

// AddNode inserts an item keyed by its definition position. It returns
// false when a node with the same key is already present; the original
// item is kept in that case.
func (g *Graph) AddNode(item *model.HierarchyItem) bool {
	key := item.Key()
	if _, ok := g.nodes[key]; ok {
		return false
	}
	g.nodes[key] = item
	return true
}

// HasNode reports whether a node with the given key is present.
func (g *Graph) HasNode(key model.PositionKey) bool {
	_, ok := g.nodes[key]
	return ok
}

// AddEdge records that a reference to from occurs inside the body of to.
// Endpoints not yet in the node set are added.
func (g *Graph) AddEdge(from, to *model.HierarchyItem) {
	g.AddNode(from)
	g.AddNode(to)
	e := model.Edge{From: from, To: to}
	g.edges[e.Key()] = e
}

// HasEdge reports whether the edge is present.
func (g *Graph) HasEdge(key model.EdgeKey) bool {
	_, ok := g.edges[key]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in a stable order (by path, line, character).
func (g *Graph) Nodes() []*model.HierarchyItem {
	items := make([]*model.HierarchyItem, 0, len(g.nodes))
	for _, item := range g.nodes {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b *model.HierarchyItem) int {
		return a.DefinedAt.Compare(b.DefinedAt)
	})
	return items
}

// Edges returns the edges in a stable order.
func (g *Graph) Edges() []model.Edge {
	edges := make([]model.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b model.Edge) int {
		if c := a.From.DefinedAt.Compare(b.From.DefinedAt); c != 0 {
			return c
		}
		return a.To.DefinedAt.Compare(b.To.DefinedAt)
	})
	return edges
}

// Referrers returns the nodes whose bodies reference the given node,
// in stable order.
func (g *Graph) Referrers(key model.PositionKey) []*model.HierarchyItem {
	var out []*model.HierarchyItem
	for _, e := range g.Edges() {
		if e.From.Key() == key {
			out = append(out, e.To)
		}
	}
	return out
}

// Merge folds the nodes and edges of other into g. Used to accumulate
// per-file traversals into one result.
func (g *Graph) Merge(other *Graph) {
	for key, item := range other.nodes {
		if _, ok := g.nodes[key]; !ok {
			g.nodes[key] = item
		}
	}
	for key, e := range other.edges {
		if _, ok := g.edges[key]; !ok {
			g.edges[key] = e
		}
	}
}
