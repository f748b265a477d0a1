// Package mcp exposes API validation as MCP tools so agents can inspect
// specs, run sweeps, and read past results over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/history"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes API validation tools.
type Server struct {
	cfg     *config.Config
	history *history.Store
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. The history store may be nil when no
// run database exists yet; tools that need it report that to the caller.
func NewServer(cfg *config.Config, store *history.Store) *Server {
	s := &Server{
		cfg:     cfg,
		history: store,
	}

	s.mcp = server.NewMCPServer(
		"apivet",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listEndpointsTool, s.handleListEndpoints)
	s.mcp.AddTool(validateAPITool, s.handleValidateAPI)
	s.mcp.AddTool(getLatestRunTool, s.handleGetLatestRun)
	s.mcp.AddTool(listRunsTool, s.handleListRuns)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
