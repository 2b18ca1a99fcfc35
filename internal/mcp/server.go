package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("trainplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("trainplan builds 8-week resistance training programs from an intake questionnaire. Generate programs, inspect stored ones, look up exercise alternatives, and preview the session templates a schedule resolves to. Programs are scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateProgram, Handler: h.generateProgram},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolFindAlternatives, Handler: h.findAlternatives},
		server.ServerTool{Tool: toolDescribeTemplate, Handler: h.describeTemplate},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resComplexityRules, Handler: h.complexityRules},
		server.ServerResource{Resource: resCatalogSummary, Handler: h.catalogSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resComplexityRules = mcp.NewResource(
	"trainplan://complexity_rules",
	"Complexity Rules",
	mcp.WithResourceDescription("Maximum exercise complexity and top-tier allowance per experience level"),
	mcp.WithMIMEType("application/json"),
)

var resCatalogSummary = mcp.NewResource(
	"trainplan://catalog_summary",
	"Catalog Summary",
	mcp.WithResourceDescription("Muscles, equipment categories and injury types known to the exercise catalog"),
	mcp.WithMIMEType("application/json"),
)
