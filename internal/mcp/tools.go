// ABOUTME: MCP tool definitions and registration for the chatstash server
// ABOUTME: Defines JSON schemas for every cache operation exposed over stdio
package mcp

import (
	"github.com/harper/chatstash/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage) *Handlers {
	handlers := &Handlers{storage: store}

	// 1. list_chats - List all cached chats
	server.AddTool(mcp.Tool{
		Name:        "list_chats",
		Description: "List all cached chats, most recently updated first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListChats)

	// 2. get_chat - Get one chat with its messages
	server.AddTool(mcp.Tool{
		Name:        "get_chat",
		Description: "Get a single chat by id, including its messages in timestamp order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Chat id to fetch",
				},
			},
			Required: []string{"chat_id"},
		},
	}, handlers.GetChat)

	// 3. add_chat - Create a new chat
	server.AddTool(mcp.Tool{
		Name:        "add_chat",
		Description: "Create a new chat in the cache. The id is minted locally unless one is supplied.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Chat title",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Model the chat runs against",
				},
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional explicit id (for mirroring remote rows)",
				},
			},
			Required: []string{"title"},
		},
	}, handlers.AddChat)

	// 4. update_chat - Merge partial fields into a chat
	server.AddTool(mcp.Tool{
		Name:        "update_chat",
		Description: "Update a chat's fields. Only provided fields are changed; others are left untouched.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Chat id to update",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "New title",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "New model",
				},
				"is_starred": map[string]interface{}{
					"type":        "boolean",
					"description": "Star or unstar the chat",
				},
			},
			Required: []string{"chat_id"},
		},
	}, handlers.UpdateChat)

	// 5. delete_chat - Delete a chat and its messages
	server.AddTool(mcp.Tool{
		Name:        "delete_chat",
		Description: "Delete a chat and all of its messages atomically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Chat id to delete",
				},
			},
			Required: []string{"chat_id"},
		},
	}, handlers.DeleteChat)

	// 6. list_messages - List a chat's messages
	server.AddTool(mcp.Tool{
		Name:        "list_messages",
		Description: "List one chat's messages ordered by timestamp ascending.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Chat id whose messages to list",
				},
			},
			Required: []string{"chat_id"},
		},
	}, handlers.ListMessages)

	// 7. add_message - Append a message to a chat
	server.AddTool(mcp.Tool{
		Name:        "add_message",
		Description: "Add a message to an existing chat. Role must be user, assistant, or system.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Chat the message belongs to",
				},
				"role": map[string]interface{}{
					"type":        "string",
					"description": "Message role: user, assistant, or system",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Message body text",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Optional model that produced the message",
				},
			},
			Required: []string{"chat_id", "role", "content"},
		},
	}, handlers.AddMessage)

	// 8. search - Substring search across chats, messages, and projects
	server.AddTool(mcp.Tool{
		Name:        "search",
		Description: "Case-insensitive substring search over chat titles, message contents, and project names.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Substring to search for",
				},
				"chat_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional chat id to narrow the message search",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Search)

	// 9. export_data - Export the whole cache as a snapshot
	server.AddTool(mcp.Tool{
		Name:        "export_data",
		Description: "Export all chats, messages, and projects as a single JSON snapshot.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ExportData)

	// 10. import_data - Replace the cache from a snapshot
	server.AddTool(mcp.Tool{
		Name:        "import_data",
		Description: "Replace the entire cache with a JSON snapshot. The import is all-or-nothing: on any failure the cache is left untouched.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"snapshot": map[string]interface{}{
					"type":        "string",
					"description": "JSON snapshot produced by export_data",
				},
			},
			Required: []string{"snapshot"},
		},
	}, handlers.ImportData)

	// 11. storage_info - Report cache footprint
	server.AddTool(mcp.Tool{
		Name:        "storage_info",
		Description: "Report row counts and advisory byte usage for the cache.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.StorageInfo)

	return handlers
}
