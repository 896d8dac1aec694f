package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/diff"
	"github.com/sprite-ai/blastr/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgAffected = "affected"
	wsMsgRadius   = "radius"
)

// WebSocket message types to client.
const (
	wsMsgParsed   = "parsed"
	wsMsgProgress = "progress"
	wsMsgResult   = "result"
	wsMsgError    = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsProgress is sent once per symbol the traversal expands.
type wsProgress struct {
	Symbol    string             `json:"symbol"`
	Kind      string             `json:"kind"`
	DefinedAt model.FilePosition `json:"defined_at"`
	Nodes     int                `json:"nodes"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Error("websocket read", slog.String("error", err.Error()))
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgAffected:
			s.handleWSAffected(conn, msg.Data)
		case wsMsgRadius:
			s.handleWSRadius(r, conn, msg.Data)
		default:
			s.sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) handleWSAffected(conn *websocket.Conn, data json.RawMessage) {
	var req affectedRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWSError(conn, "invalid affected data")
		return
	}

	ds, err := diff.Parse(req.Diff)
	if err != nil {
		s.sendWSError(conn, "parsing diff: "+err.Error())
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
	s.sendWSMessage(conn, wsMsgParsed, resp)
}

// handleWSRadius runs a traversal and streams one progress event per
// expanded symbol before the final result. The traversal is synchronous,
// so progress writes never race with the result write.
func (s *Server) handleWSRadius(r *http.Request, conn *websocket.Conn, data json.RawMessage) {
	var req radiusRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWSError(conn, "invalid radius data")
		return
	}
	if len(req.Positions) == 0 {
		s.sendWSError(conn, "positions are required")
		return
	}

	cfg, strategy, err := s.traversalConfig(req)
	if err != nil {
		s.sendWSError(conn, err.Error())
		return
	}

	analyzer := analysis.New(s.dial(cfg), strategy, s.log)
	analyzer.OnExpand = func(item *model.HierarchyItem, nodes int) {
		s.sendWSMessage(conn, wsMsgProgress, wsProgress{
			Symbol:    item.Name,
			Kind:      item.Kind,
			DefinedAt: item.DefinedAt,
			Nodes:     nodes,
		})
	}

	graph, err := runTraversal(r.Context(), analyzer, req.Positions)
	if err != nil {
		s.sendWSError(conn, "traversal failed: "+err.Error())
		return
	}

	s.sendWSMessage(conn, wsMsgResult, graphResponse(graph))
}

func (s *Server) sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.log.Error("ws marshal", slog.String("error", err.Error()))
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Error("ws write", slog.String("error", err.Error()))
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, errMsg string) {
	s.sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
