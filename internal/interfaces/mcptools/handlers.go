package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ctxdocs.ai/mcp/internal/core/workflow"
	"ctxdocs.ai/mcp/internal/infrastructure/api"
)

const (
	toolResolve = "resolve-library-id"
	toolDocs    = "get-library-docs"
)

func handleResolve(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("libraryName")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		key := deps.ClientKey(ctx)
		deps.Gate.AdmitResolve(key)

		results, err := deps.Backend.Search(ctx, query)
		if err != nil {
			deps.Logger.Error("library search failed", "query", query, "error", err)
			deps.Telemetry.Record(toolResolve, query, "", key, false)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search libraries: %s", err)), nil
		}

		if len(results) == 0 {
			// Logical failure: the resolve still counts for gating.
			deps.Telemetry.Record(toolResolve, query, "", key, false)
			return mcp.NewToolResultText(fmt.Sprintf(
				"No libraries found matching %q. Try a more specific or alternate name.", query)), nil
		}

		deps.Telemetry.Record(toolResolve, query, "", key, true)
		return mcp.NewToolResultText(api.FormatResults(results)), nil
	}
}

func handleDocs(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		libraryID, err := req.RequireString("context7CompatibleLibraryID")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topic := req.GetString("topic", "")
		tokens := workflow.ClampTokens(req.GetInt("tokens", deps.MinimumTokens), deps.MinimumTokens)

		key := deps.ClientKey(ctx)
		admitted, guidance := deps.Gate.AdmitDocs(key, libraryID)
		if !admitted {
			// Sequencing error: advisory guidance, backend never consulted.
			deps.Telemetry.Record(toolDocs, "", libraryID, key, false)
			return mcp.NewToolResultText(guidance), nil
		}

		text, err := deps.Backend.Docs(ctx, libraryID, topic, tokens)
		if err != nil {
			deps.Logger.Error("documentation fetch failed", "library", libraryID, "error", err)
			deps.Telemetry.Record(toolDocs, "", libraryID, key, false)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch documentation: %s", err)), nil
		}

		if text == "" {
			deps.Telemetry.Record(toolDocs, "", libraryID, key, false)
			return mcp.NewToolResultText(fmt.Sprintf(
				"No documentation available for %q. Verify the library ID with 'resolve-library-id'.",
				libraryID)), nil
		}

		deps.Telemetry.Record(toolDocs, "", libraryID, key, true)
		return mcp.NewToolResultText(text), nil
	}
}
