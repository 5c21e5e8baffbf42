// ABOUTME: MCP tool handler implementations for the chatstash server
// ABOUTME: Thin adapters from tool arguments to cache operations with JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/chatstash/internal/models"
	"github.com/harper/chatstash/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage *sqlite.Storage
}

// ListChats handles the list_chats tool
func (h *Handlers) ListChats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chats := h.storage.ListChats()

	response := map[string]interface{}{
		"chats": chats,
		"count": len(chats),
	}
	return jsonResult(response)
}

// GetChat handles the get_chat tool
func (h *Handlers) GetChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	chat := h.storage.GetChat(chatID)
	if chat == nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat %s not found", chatID)), nil
	}

	response := map[string]interface{}{
		"chat":     chat,
		"messages": h.storage.ListChatMessages(chatID),
	}
	return jsonResult(response)
}

// AddChat handles the add_chat tool
func (h *Handlers) AddChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}

	chat := models.NewChat(title, request.GetString("model", ""))
	if id := request.GetString("chat_id", ""); id != "" {
		chat.ID = id
	}

	if err := h.storage.AddChat(chat); err != nil {
		if errors.Is(err, sqlite.ErrDuplicateID) {
			return mcp.NewToolResultError(fmt.Sprintf("chat %s already exists", chat.ID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to add chat: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"chat": chat})
}

// UpdateChat handles the update_chat tool
func (h *Handlers) UpdateChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	patch := &models.ChatPatch{}
	if title := request.GetString("title", ""); title != "" {
		patch.Title = &title
	}
	if model := request.GetString("model", ""); model != "" {
		patch.Model = &model
	}

	// Booleans need the raw arguments map so false is distinguishable from absent
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if raw, exists := args["is_starred"]; exists {
			if starred, ok := raw.(bool); ok {
				patch.IsStarred = &starred
			}
		}
	}

	if err := h.storage.UpdateChat(chatID, patch); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("chat %s not found", chatID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update chat: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"chat": h.storage.GetChat(chatID)})
}

// DeleteChat handles the delete_chat tool
func (h *Handlers) DeleteChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	if err := h.storage.DeleteChat(chatID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("chat %s not found", chatID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete chat: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"deleted": chatID})
}

// ListMessages handles the list_messages tool
func (h *Handlers) ListMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	messages := h.storage.ListChatMessages(chatID)
	response := map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	}
	return jsonResult(response)
}

// AddMessage handles the add_message tool
func (h *Handlers) AddMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}
	role, err := request.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError("role argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	if h.storage.GetChat(chatID) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat %s not found", chatID)), nil
	}

	msg := models.NewMessage(chatID, models.MessageRole(role), content)
	msg.Model = request.GetString("model", "")
	if err := msg.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid message: %v", err)), nil
	}

	if err := h.storage.AddMessage(msg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add message: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"message": msg})
}

// Search handles the search tool
func (h *Handlers) Search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	chatID := request.GetString("chat_id", "")

	response := map[string]interface{}{
		"chats":    h.storage.SearchChats(query),
		"messages": h.storage.SearchMessages(query, chatID),
		"projects": h.storage.SearchProjects(query),
	}
	return jsonResult(response)
}

// ExportData handles the export_data tool
func (h *Handlers) ExportData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := h.storage.Export()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal snapshot: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ImportData handles the import_data tool
func (h *Handlers) ImportData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("snapshot")
	if err != nil {
		return mcp.NewToolResultError("snapshot argument is required and must be a string"), nil
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid snapshot JSON: %v", err)), nil
	}

	if err := h.storage.Import(&snapshot); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}

	chats, messages, projects := snapshot.Counts()
	response := map[string]interface{}{
		"imported": true,
		"chats":    chats,
		"messages": messages,
		"projects": projects,
	}
	return jsonResult(response)
}

// StorageInfo handles the storage_info tool
func (h *Handlers) StorageInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := h.storage.StorageInfo()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read storage info: %v", err)), nil
	}
	return jsonResult(info)
}

// jsonResult marshals a response payload into a text tool result
func jsonResult(response interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
