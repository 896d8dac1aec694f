package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/diff"
	"github.com/sprite-ai/blastr/internal/lsproxy"
	"github.com/sprite-ai/blastr/internal/model"
	"github.com/sprite-ai/blastr/internal/report"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Affected lines ---

type affectedRequest struct {
	Diff string `json:"diff"`
}

type affectedResponse struct {
	Files map[string][]int `json:"files"`
	Stats diffStatsJSON    `json:"stats"`
}

type diffStatsJSON struct {
	Files   int `json:"files"`
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

func (s *Server) handleAffected(w http.ResponseWriter, r *http.Request) {
	var req affectedRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.Diff == "" {
		s.writeError(w, http.StatusBadRequest, "diff is required")
		return
	}

	ds, err := diff.Parse(req.Diff)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "parsing diff: "+err.Error())
		return
	}

	nFiles, added, deleted := ds.Stats()
	resp := affectedResponse{
		Files: make(map[string][]int),
		Stats: diffStatsJSON{Files: nFiles, Added: added, Deleted: deleted},
	}
	for file, lines := range ds.AffectedLines() {
		resp.Files[file] = lines.Sorted()
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// --- Blast radius ---

type radiusRequest struct {
	ServerURL      string               `json:"server_url,omitempty"`
	Strategy       string               `json:"strategy,omitempty"`
	TimeoutSeconds int                  `json:"timeout_seconds,omitempty"`
	Positions      []model.FilePosition `json:"positions"`
}

type radiusResponse struct {
	Summary string     `json:"summary"`
	Nodes   []nodeJSON `json:"nodes"`
	Edges   []edgeJSON `json:"edges"`
}

type nodeJSON struct {
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	DefinedAt model.FilePosition `json:"defined_at"`
}

type edgeJSON struct {
	From model.FilePosition `json:"from"`
	To   model.FilePosition `json:"to"`
}

func (s *Server) traversalConfig(req radiusRequest) (lsproxy.Config, analysis.MatchStrategy, error) {
	cfg := lsproxy.DefaultConfig()
	if req.ServerURL != "" {
		cfg.BaseURL = req.ServerURL
	}
	if req.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	strategy, err := analysis.ParseMatchStrategy(req.Strategy)
	return cfg, strategy, err
}

func (s *Server) handleRadius(w http.ResponseWriter, r *http.Request) {
	var req radiusRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if len(req.Positions) == 0 {
		s.writeError(w, http.StatusBadRequest, "positions are required")
		return
	}

	cfg, strategy, err := s.traversalConfig(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analyzer := analysis.New(s.dial(cfg), strategy, s.log)
	graph, err := runTraversal(r.Context(), analyzer, req.Positions)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "traversal failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, graphResponse(graph))
}

// runTraversal groups the starting positions by file and merges the
// per-file traversals, mirroring the CLI pipeline.
func runTraversal(ctx context.Context, analyzer *analysis.Analyzer, positions []model.FilePosition) (*analysis.Graph, error) {
	byFile := make(map[string][]model.FilePosition)
	var order []string
	for _, p := range positions {
		if _, ok := byFile[p.Path]; !ok {
			order = append(order, p.Path)
		}
		byFile[p.Path] = append(byFile[p.Path], p)
	}

	merged := analysis.NewGraph()
	for _, file := range order {
		g, err := analyzer.HierarchyIncoming(ctx, byFile[file])
		if err != nil {
			return nil, err
		}
		merged.Merge(g)
	}
	return merged, nil
}

func graphResponse(g *analysis.Graph) radiusResponse {
	resp := radiusResponse{
		Summary: report.Summary(g),
		Nodes:   make([]nodeJSON, 0, g.NodeCount()),
		Edges:   make([]edgeJSON, 0, g.EdgeCount()),
	}
	for _, node := range g.Nodes() {
		resp.Nodes = append(resp.Nodes, nodeJSON{
			Name:      node.Name,
			Kind:      node.Kind,
			DefinedAt: node.DefinedAt,
		})
	}
	for _, e := range g.Edges() {
		resp.Edges = append(resp.Edges, edgeJSON{From: e.From.DefinedAt, To: e.To.DefinedAt})
	}
	return resp
}
