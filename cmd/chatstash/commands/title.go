// ABOUTME: CLI command to generate a chat title from its messages
// ABOUTME: Uses the OpenAI client and persists the title via a chat patch
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/chatstash/internal/llm"
	"github.com/harper/chatstash/internal/models"
)

var (
	titleDryRun bool
)

// NewTitleCmd creates title command
func NewTitleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "title <chat-id>",
		Short: "Generate a title for a chat from its messages",
		Long: `Summarize a chat's messages into a short title using OpenAI
and save it on the chat. Requires OPENAI_API_KEY.

Examples:
  chatstash title 3f8a9c20-1b2d-4f8e-9a6b-7c5d4e3f2a1b
  chatstash title --dry-run 3f8a9c20-1b2d-4f8e-9a6b-7c5d4e3f2a1b`,
		Args: cobra.ExactArgs(1),
		RunE: runTitle,
	}

	cmd.Flags().BoolVar(&titleDryRun, "dry-run", false, "Print the title without saving it")

	return cmd
}

func runTitle(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set")
	}

	chatID := args[0]

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if store.GetChat(chatID) == nil {
		return fmt.Errorf("chat %s not found", chatID)
	}

	messages := store.ListChatMessages(chatID)
	if len(messages) == 0 {
		return fmt.Errorf("chat %s has no messages to summarize", chatID)
	}

	client, err := llm.NewOpenAIClient(apiKey)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	title, err := client.GenerateChatTitle(messages)
	if err != nil {
		return fmt.Errorf("generating title: %w", err)
	}

	if titleDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", title)
		return nil
	}

	if err := store.UpdateChat(chatID, &models.ChatPatch{Title: &title}); err != nil {
		return fmt.Errorf("saving title: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Titled chat %s: %s\n", chatID, title)
	}
	return nil
}
