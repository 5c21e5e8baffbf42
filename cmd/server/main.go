// ABOUTME: Main entry point for the chatstash MCP server with stdio transport
// ABOUTME: Initializes the local cache and registers every tool before serving
package main

import (
	"log"

	"github.com/harper/chatstash/internal/config"
	"github.com/harper/chatstash/internal/mcp"
	"github.com/harper/chatstash/internal/storage/sqlite"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize storage with XDG-compliant paths
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	store, err := sqlite.NewStorageWithPath(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	if cfg.QuotaBytes > 0 {
		store.SetQuotaBytes(cfg.QuotaBytes)
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Chatstash Local Cache",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, store)

	// Start server with stdio transport
	log.Println("chatstash MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
