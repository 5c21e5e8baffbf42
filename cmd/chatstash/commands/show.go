// ABOUTME: CLI command to show one chat with its messages
// ABOUTME: Renders a transcript view or JSON via --format
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCmd creates show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Show a chat and its messages",
		Long: `Show a single chat with its messages in timestamp order.

Also lists the projects the chat belongs to, if any.

Examples:
  chatstash show 3f8a9c20-1b2d-4f8e-9a6b-7c5d4e3f2a1b
  chatstash show --format json 3f8a9c20-1b2d-4f8e-9a6b-7c5d4e3f2a1b`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	chatID := args[0]

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	chat := store.GetChat(chatID)
	if chat == nil {
		return fmt.Errorf("chat %s not found", chatID)
	}

	messages := store.ListChatMessages(chatID)
	projects := store.ProjectsForChat(chatID)

	if outputFormat == "json" {
		payload := map[string]interface{}{
			"chat":     chat,
			"messages": messages,
			"projects": projects,
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	title := chat.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(out, "Chat: %s\n", title)
	fmt.Fprintf(out, "ID: %s\n", chat.ID)
	if chat.Model != "" {
		fmt.Fprintf(out, "Model: %s\n", chat.Model)
	}
	fmt.Fprintf(out, "Updated: %s\n", formatMillis(chat.UpdatedAt))
	if chat.IsStarred != nil && *chat.IsStarred {
		fmt.Fprintf(out, "Starred: yes\n")
	}
	for _, project := range projects {
		fmt.Fprintf(out, "Project: %s (%s)\n", project.Name, project.ID)
	}

	if len(messages) == 0 {
		if !quiet {
			fmt.Fprintf(out, "\nNo messages\n")
		}
		return nil
	}

	fmt.Fprintf(out, "\n")
	for _, msg := range messages {
		fmt.Fprintf(out, "[%s] %s\n", msg.Role, formatMillis(msg.Timestamp))
		fmt.Fprintf(out, "%s\n", msg.Content)
		for _, att := range msg.Attachments {
			fmt.Fprintf(out, "  (attachment: %s %s)\n", att.Type, att.Name)
		}
		fmt.Fprintf(out, "\n")
	}

	if !quiet {
		fmt.Fprintf(out, "Total: %d message(s)\n", len(messages))
	}

	return nil
}
