package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"promoctl/pkg/app"
	"promoctl/pkg/config"
)

const (
	// ServerName is the name of the MCP server.
	ServerName = "promoctl-mcp"
	// ServerVersion is the version of the MCP server.
	ServerVersion = "0.1.0"
)

// Server wraps the MCP server with promotion-console functionality.
type Server struct {
	mcpServer *server.MCPServer
	env       *app.App
	handlers  *Handlers
}

// NewServer creates a new promoctl MCP server. The backend URL comes from the
// local config file or the PROMOCTL_API_URL environment variable.
func NewServer(ctx context.Context) *Server {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	// stdio carries the protocol; logs must not pollute stdout.
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	env := app.Bootstrap(ctx, cfg, log)
	handlers := NewHandlers(env)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		env:       env,
		handlers:  handlers,
	}

	s.registerTools()

	return s
}

// registerTools registers all promotion tools with the MCP server.
func (s *Server) registerTools() {
	tools := ToolDefinitions()

	for _, tool := range tools {
		switch tool.Name {
		// Profiles
		case "promo_profiles":
			s.mcpServer.AddTool(tool, s.handlers.HandleProfiles)
		case "promo_profile":
			s.mcpServer.AddTool(tool, s.handlers.HandleProfile)
		case "promo_delete_profile":
			s.mcpServer.AddTool(tool, s.handlers.HandleDeleteProfile)

		// Promotions
		case "promo_start_single":
			s.mcpServer.AddTool(tool, s.handlers.HandleStartSingle)
		case "promo_start_profile":
			s.mcpServer.AddTool(tool, s.handlers.HandleStartProfile)
		case "promo_stop":
			s.mcpServer.AddTool(tool, s.handlers.HandleStopJob)
		case "promo_job_status":
			s.mcpServer.AddTool(tool, s.handlers.HandleJobStatus)

		// Configuration
		case "promo_minimums":
			s.mcpServer.AddTool(tool, s.handlers.HandleMinimums)
		case "promo_username":
			s.mcpServer.AddTool(tool, s.handlers.HandleUsername)

		// Monitoring
		case "promo_monitor_targets":
			s.mcpServer.AddTool(tool, s.handlers.HandleMonitorTargets)
		case "promo_monitor_add":
			s.mcpServer.AddTool(tool, s.handlers.HandleMonitorAdd)
		case "promo_monitor_toggle":
			s.mcpServer.AddTool(tool, s.handlers.HandleMonitorToggle)
		case "promo_monitor_remove":
			s.mcpServer.AddTool(tool, s.handlers.HandleMonitorRemove)
		case "promo_monitor_settings":
			s.mcpServer.AddTool(tool, s.handlers.HandleMonitorSettings)
		case "promo_test_latest_post":
			s.mcpServer.AddTool(tool, s.handlers.HandleTestLatestPost)
		}
	}
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	defer s.env.Close()
	return server.ServeStdio(s.mcpServer)
}

// ServeContext starts the MCP server on stdio with a context.
func (s *Server) ServeContext(ctx context.Context) error {
	defer s.env.Close()
	return server.ServeStdio(s.mcpServer, server.WithStdioContextFunc(func(_ context.Context) context.Context {
		return ctx
	}))
}

// GetMCPServer returns the underlying MCP server for testing.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// Env returns the wired application environment for testing.
func (s *Server) Env() *app.App {
	return s.env
}
