package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/blastr/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the blast-radius engine.

Endpoints:
  GET  /health        — Health check
  POST /api/affected  — Parse a diff into per-file affected lines
  POST /api/radius    — Trace a blast radius against a reachable lsproxy
  GET  /api/ws        — WebSocket streaming traversal progress`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, newLogger(cmd))
	return srv.ListenAndServe()
}
