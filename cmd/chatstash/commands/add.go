// ABOUTME: CLI command to add chats and messages to the cache
// ABOUTME: Handles chat creation and message appends with role validation
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/chatstash/internal/models"
)

var (
	addModel   string
	addChatID  string
	addStar    bool
	addRole    string
	addMessage string
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a chat, optionally with a first message",
		Long: `Add a new chat to the cache.

With --message (or text on stdin) the first message is stored in the
same run. Use --to to append a message to an existing chat instead of
creating a new one.

Examples:
  chatstash add "Trip planning"
  chatstash add --model gpt-4o "Trip planning" --message "Best time for Japan?"
  chatstash add --to 3f8a9c20-1b2d --role assistant --message "Spring."`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addModel, "model", "", "Model the chat runs against")
	cmd.Flags().StringVar(&addChatID, "to", "", "Append the message to an existing chat id")
	cmd.Flags().BoolVar(&addStar, "star", false, "Star the new chat")
	cmd.Flags().StringVar(&addRole, "role", "user", "Message role: user, assistant, or system")
	cmd.Flags().StringVar(&addMessage, "message", "", "Message body (reads stdin when - )")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := addMessage
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Append-only mode: --to skips chat creation
	if addChatID != "" {
		if text == "" {
			return fmt.Errorf("no message provided")
		}
		if store.GetChat(addChatID) == nil {
			return fmt.Errorf("chat %s not found", addChatID)
		}

		msg := models.NewMessage(addChatID, models.MessageRole(addRole), text)
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("invalid message: %w", err)
		}
		if err := store.AddMessage(msg); err != nil {
			return fmt.Errorf("adding message: %w", err)
		}

		now := msg.Timestamp
		if err := store.UpdateChat(addChatID, &models.ChatPatch{UpdatedAt: &now}); err != nil {
			return fmt.Errorf("touching chat: %w", err)
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added message %s to chat %s\n", msg.ID, addChatID)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("no title provided")
	}

	chat := models.NewChat(args[0], addModel)
	if addStar {
		starred := true
		chat.IsStarred = &starred
	}

	if err := store.AddChat(chat); err != nil {
		return fmt.Errorf("adding chat: %w", err)
	}

	if text != "" {
		msg := models.NewMessage(chat.ID, models.MessageRole(addRole), text)
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("invalid message: %w", err)
		}
		if err := store.AddMessage(msg); err != nil {
			return fmt.Errorf("adding message: %w", err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added chat %s\n", chat.ID)
	}
	return nil
}
