package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dominikbraun/graph/draw"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/model"
)

// WriteDOT writes the graph in Graphviz DOT format.
func WriteDOT(g *analysis.Graph, w io.Writer) error {
	dg, err := toDirected(g)
	if err != nil {
		return fmt.Errorf("building export graph: %w", err)
	}
	if err := draw.DOT(dg, w); err != nil {
		return fmt.Errorf("writing dot: %w", err)
	}
	return nil
}

type nodeJSON struct {
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	DefinedAt model.FilePosition `json:"defined_at"`
	Range     model.FileRange    `json:"range"`
}

type edgeJSON struct {
	From model.FilePosition `json:"from"`
	To   model.FilePosition `json:"to"`
}

type graphJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Edges []edgeJSON `json:"edges"`
}

// WriteJSON writes nodes and edges as plain JSON, keyed by definition
// position like everything else.
func WriteJSON(g *analysis.Graph, w io.Writer) error {
	out := graphJSON{
		Nodes: make([]nodeJSON, 0, g.NodeCount()),
		Edges: make([]edgeJSON, 0, g.EdgeCount()),
	}
	for _, node := range g.Nodes() {
		out.Nodes = append(out.Nodes, nodeJSON{
			Name:      node.Name,
			Kind:      node.Kind,
			DefinedAt: node.DefinedAt,
			Range:     node.Context.Range,
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edgeJSON{From: e.From.DefinedAt, To: e.To.DefinedAt})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}
