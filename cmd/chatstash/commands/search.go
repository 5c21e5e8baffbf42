// ABOUTME: CLI command to search the cache
// ABOUTME: Case-insensitive substring search across chats, messages, and projects
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchChatID string
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search chats, messages, and projects",
		Long: `Search the cache with a case-insensitive substring match.

Chat titles, message contents, and project names/descriptions are all
searched. Use --chat to narrow the message search to one chat.

Examples:
  chatstash search "japan"
  chatstash search --chat 3f8a9c20-1b2d "budget"
  chatstash search --format json "japan"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchChatID, "chat", "", "Narrow the message search to one chat id")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	chats := store.SearchChats(query)
	messages := store.SearchMessages(query, searchChatID)
	projects := store.SearchProjects(query)

	total := len(chats) + len(messages) + len(projects)
	if total == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No results for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		payload := map[string]interface{}{
			"chats":    chats,
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

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KIND\tMATCH\tID\n")
	fmt.Fprintf(w, "----\t-----\t--\n")

	for _, chat := range chats {
		fmt.Fprintf(w, "chat\t%s\t%s\n", truncate(chat.Title, 50), truncate(chat.ID, 36))
	}
	for _, msg := range messages {
		fmt.Fprintf(w, "message\t%s\t%s\n", truncate(msg.Content, 50), truncate(msg.ID, 36))
	}
	for _, project := range projects {
		fmt.Fprintf(w, "project\t%s\t%s\n", truncate(project.Name, 50), truncate(project.ID, 36))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", total)
	}

	return nil
}
