// ABOUTME: MCP tool definitions and registration for the hearth server
// ABOUTME: Exposes household question answering and index management over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hearthkit/hearth/internal/core"
	"github.com/hearthkit/hearth/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, rag *core.RAGService, indexer *core.Indexer, db *sqlite.DB) *Handlers {
	handlers := &Handlers{
		rag:     rag,
		indexer: indexer,
		db:      db,
	}

	// 1. household_ask - Answer a natural-language question about household data
	server.AddTool(mcp.Tool{
		Name:        "household_ask",
		Description: "Answer a natural-language question about household data (health logs, recipes, pantry, goals), grounded in and cited against that data.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"household_id": map[string]interface{}{
					"type":        "number",
					"description": "Household the question is scoped to",
				},
				"user_id": map[string]interface{}{
					"type":        "number",
					"description": "Acting user id, for personal-data scoping (optional)",
				},
				"user_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name used to personalize the answer (optional)",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum passages to retrieve (default: 15)",
					"default":     15,
				},
			},
			Required: []string{"question", "household_id"},
		},
	}, handlers.HouseholdAsk)

	// 2. reindex_entity - Re-run the indexing pipeline for one entity
	server.AddTool(mcp.Tool{
		Name:        "reindex_entity",
		Description: "Re-run the indexing pipeline for one household entity, replacing its vectors.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"entity_id": map[string]interface{}{
					"type":        "number",
					"description": "Id of the entity to reindex",
				},
			},
			Required: []string{"entity_id"},
		},
	}, handlers.ReindexEntity)

	// 3. index_status - Report indexing queue and completion counters
	server.AddTool(mcp.Tool{
		Name:        "index_status",
		Description: "Report the indexing pipeline's queued, processed, and failed job counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStatus)

	return handlers
}
