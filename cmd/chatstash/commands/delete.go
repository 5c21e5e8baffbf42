// ABOUTME: CLI command to delete chats from the cache
// ABOUTME: Cascade delete of one chat or confirmed clear of everything
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/chatstash/internal/storage/sqlite"
)

var (
	deleteAll     bool
	deleteConfirm bool
)

// NewDeleteCmd creates delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [chat-id]",
		Short: "Delete a chat and its messages",
		Long: `Delete a chat and all of its messages in one transaction.

With --all the entire cache is cleared: every chat, message, and
project. Clearing requires --confirm.

Examples:
  chatstash delete 3f8a9c20-1b2d-4f8e-9a6b-7c5d4e3f2a1b
  chatstash delete --all --confirm`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().BoolVar(&deleteAll, "all", false, "Clear the entire cache")
	cmd.Flags().BoolVar(&deleteConfirm, "confirm", false, "Confirm the clear operation")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if deleteAll {
		if !deleteConfirm {
			fmt.Fprintln(cmd.OutOrStdout(), "This will delete ALL chats, messages, and projects!")
			fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
			return nil
		}

		if err := store.ClearAll(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}

		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache cleared")
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("no chat id provided")
	}

	chatID := args[0]
	if err := store.DeleteChat(chatID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return fmt.Errorf("chat %s not found", chatID)
		}
		return fmt.Errorf("deleting chat: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted chat %s\n", chatID)
	}
	return nil
}
