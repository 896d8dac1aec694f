// Package api implements the HTTP API server for blastr.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/lsproxy"
)

// Server is the blastr HTTP API server.
type Server struct {
	addr   string
	mux    *http.ServeMux
	server *http.Server
	log    *slog.Logger

	// dial builds the symbol service for a traversal request. Tests
	// substitute a fake; production uses the lsproxy client.
	dial func(cfg lsproxy.Config) analysis.SymbolService
}

// New creates a new API server.
func New(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr: addr,
		log:  logger,
		dial: func(cfg lsproxy.Config) analysis.SymbolService {
			return lsproxy.New(cfg, logger)
		},
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // traversals block on the symbol service
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/affected", s.handleAffected)
	s.mux.HandleFunc("POST /api/radius", s.handleRadius)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("blastr API server listening", slog.String("addr", s.addr))
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Error("json encode error", slog.String("error", err.Error()))
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
