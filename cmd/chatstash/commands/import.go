// ABOUTME: CLI command to import a snapshot file into the cache
// ABOUTME: Clear-and-replace in one transaction, guarded by --confirm
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	importConfirm bool
)

// NewImportCmd creates import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON snapshot, replacing all data",
		Long: `Import a JSON snapshot produced by export.

The import replaces the entire cache: existing chats, messages, and
projects are deleted and the snapshot's rows inserted, all in one
transaction. On any failure the cache is left exactly as it was.

Examples:
  chatstash import --confirm backup.json`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolVar(&importConfirm, "confirm", false, "Confirm replacing all existing data")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	if !importConfirm {
		fmt.Fprintln(cmd.OutOrStdout(), "Import replaces ALL existing data!")
		fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
		return nil
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if err := store.ImportFromJSON(args[0]); err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	if !quiet {
		info, err := store.StorageInfo()
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d chat(s), %d message(s), %d project(s)\n",
				info.ChatCount, info.MessageCount, info.ProjectCount)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s\n", args[0])
		}
	}
	return nil
}
