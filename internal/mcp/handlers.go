// ABOUTME: MCP tool handler implementations for the hearth server
// ABOUTME: Validates arguments and bridges tools onto the RAG service and indexer
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hearthkit/hearth/internal/core"
	"github.com/hearthkit/hearth/internal/models"
	"github.com/hearthkit/hearth/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	rag     *core.RAGService
	indexer *core.Indexer
	db      *sqlite.DB
}

// HouseholdAsk handles the household_ask tool
func (h *Handlers) HouseholdAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	householdID := request.GetInt("household_id", 0)
	if householdID <= 0 {
		return mcp.NewToolResultError("household_id argument is required and must be a positive number"), nil
	}

	qc := models.QueryContext{
		HouseholdID: int64(householdID),
		UserID:      int64(request.GetInt("user_id", 0)),
		TopK:        request.GetInt("top_k", 0),
		UserName:    request.GetString("user_name", ""),
	}

	result, err := h.rag.Query(ctx, question, qc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ReindexEntity handles the reindex_entity tool
func (h *Handlers) ReindexEntity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityID := request.GetInt("entity_id", 0)
	if entityID <= 0 {
		return mcp.NewToolResultError("entity_id argument is required and must be a positive number"), nil
	}

	entity, err := h.db.GetEntity(int64(entityID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading entity %d: %v", entityID, err)), nil
	}

	if err := h.indexer.OnEntityChanged(entity.Type, entity.ID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("enqueueing reindex: %v", err)), nil
	}

	response := map[string]interface{}{
		"status":      "queued",
		"entity_id":   entity.ID,
		"entity_type": entity.Type,
	}
	responseJSON, _ := json.Marshal(response)
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// IndexStatus handles the index_status tool
func (h *Handlers) IndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := h.indexer.Status()
	responseJSON, err := json.Marshal(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
