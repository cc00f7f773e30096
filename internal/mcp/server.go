package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog training data server. Query training programs, the live session, completion records, weekly volume, and body weight history."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetPrograms, Handler: h.getPrograms},
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetTrainingRecords, Handler: h.getTrainingRecords},
		server.ServerTool{Tool: toolGetVolumeStats, Handler: h.getVolumeStats},
		server.ServerTool{Tool: toolGetBodyWeight, Handler: h.getBodyWeight},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSession},
		server.ServerResource{Resource: resProgramCatalog, Handler: h.programCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveSession = mcp.NewResource(
	"liftlog://active_session",
	"Active Session",
	mcp.WithResourceDescription("The live training session with per-exercise set progress, rest state, and elapsed time. The session field is null when no session is running."),
	mcp.WithMIMEType("application/json"),
)

var resProgramCatalog = mcp.NewResource(
	"liftlog://program_catalog",
	"Program Catalog",
	mcp.WithResourceDescription("All training programs with their exercise lists, target sets/reps, and rest intervals"),
	mcp.WithMIMEType("application/json"),
)
