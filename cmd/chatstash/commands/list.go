// ABOUTME: CLI command to list cached chats and projects
// ABOUTME: Tabular output with relative timestamps, JSON via --format
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/chatstash/internal/storage/sqlite"
)

var (
	listProjects bool
)

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached chats",
		Long: `List cached chats, most recently updated first.

Starred chats are marked with a star in the table output.

Examples:
  chatstash list
  chatstash list --projects
  chatstash list --format json`,
		RunE: runList,
	}

	cmd.Flags().BoolVar(&listProjects, "projects", false, "List projects instead of chats")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if listProjects {
		return listProjectsTable(cmd, store)
	}

	chats := store.ListChats()
	if len(chats) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No chats found\n")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(chats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TITLE\tMODEL\tUPDATED\tID\n")
	fmt.Fprintf(w, "-----\t-----\t-------\t--\n")

	for _, chat := range chats {
		title := chat.Title
		if title == "" {
			title = "(untitled)"
		}
		if chat.IsStarred != nil && *chat.IsStarred {
			title = "* " + title
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncate(title, 40),
			truncate(chat.Model, 20),
			formatMillis(chat.UpdatedAt),
			truncate(chat.ID, 36))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d chat(s)\n", len(chats))
	}

	return nil
}

func listProjectsTable(cmd *cobra.Command, store *sqlite.Storage) error {
	projects := store.ListProjects()
	if len(projects) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No projects found\n")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(projects, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCHATS\tUPDATED\tID\n")
	fmt.Fprintf(w, "----\t-----\t-------\t--\n")

	for _, project := range projects {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			truncate(project.Name, 40),
			len(project.ChatIDs),
			formatMillis(project.UpdatedAt),
			truncate(project.ID, 36))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d project(s)\n", len(projects))
	}

	return nil
}
