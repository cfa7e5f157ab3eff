// Package mcptools defines the MCP server and the two documentation
// tools it exposes: resolve-library-id and get-library-docs.
package mcptools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ctxdocs.ai/mcp/internal/core/telemetry"
	"ctxdocs.ai/mcp/internal/core/workflow"
	"ctxdocs.ai/mcp/internal/infrastructure/api"
)

// ServerName and ServerVersion identify this server to MCP clients.
const (
	ServerName    = "ctxdocs"
	ServerVersion = "1.0.0"
)

const serverInstructions = "Use this server to fetch up-to-date library documentation. " +
	"Call 'resolve-library-id' with the library name first, pick a Context7-compatible " +
	"library ID from the results, then call 'get-library-docs' with that ID."

// Backend is the documentation search/fetch collaborator. Search returns
// an empty slice when nothing matches; Docs returns an empty string when
// no documentation exists for the ID.
type Backend interface {
	Search(ctx context.Context, query string) ([]api.SearchResult, error)
	Docs(ctx context.Context, libraryID, topic string, tokens int) (string, error)
}

// ClientKeyFunc derives the session key for the request in ctx. The
// transport layer supplies it, since key derivation depends on how the
// client is connected.
type ClientKeyFunc func(ctx context.Context) string

// Deps holds everything the tool handlers need. Telemetry and the gate
// are injected rather than referenced as globals.
type Deps struct {
	Gate          *workflow.Gate
	Backend       Backend
	Telemetry     *telemetry.Log
	Logger        *slog.Logger
	MinimumTokens int
	ClientKey     ClientKeyFunc
}

// NewServer builds the MCP server with both tools registered. Extra
// server options (transport hooks, for example) are appended after the
// defaults.
func NewServer(deps Deps, opts ...server.ServerOption) *server.MCPServer {
	base := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	}

	srv := server.NewMCPServer(ServerName, ServerVersion, append(base, opts...)...)

	srv.AddTool(
		mcp.NewTool("resolve-library-id",
			mcp.WithDescription("Resolves a package/product name to a Context7-compatible library ID "+
				"and returns a list of matching libraries. You MUST call this before 'get-library-docs' "+
				"unless the user provides a library ID in '/org/project' format."),
			mcp.WithString("libraryName",
				mcp.Required(),
				mcp.Description("Library name to search for"),
			),
		),
		handleResolve(deps),
	)

	srv.AddTool(
		mcp.NewTool("get-library-docs",
			mcp.WithDescription("Fetches up-to-date documentation for a library. You must call "+
				"'resolve-library-id' first to obtain the exact library ID, unless the user provides "+
				"an ID in '/org/project' format."),
			mcp.WithString("context7CompatibleLibraryID",
				mcp.Required(),
				mcp.Description("Exact Context7-compatible library ID (e.g. '/mongodb/docs', '/vercel/next.js')"),
			),
			mcp.WithString("topic",
				mcp.Description("Topic to focus documentation on (e.g. 'hooks', 'routing')"),
			),
			mcp.WithNumber("tokens",
				mcp.Description("Maximum number of tokens of documentation to retrieve. "+
					"Values below the configured minimum are raised to it."),
			),
		),
		handleDocs(deps),
	)

	return srv
}
