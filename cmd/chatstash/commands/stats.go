// ABOUTME: CLI command to report cache footprint
// ABOUTME: Row counts and advisory byte usage, human or JSON output
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage usage",
		Long: `Show row counts and byte usage for the cache.

Row counts are exact. Byte figures come from SQLite page accounting
and are advisory; the quota is advisory too and zero when unset.

Examples:
  chatstash stats
  chatstash stats --format json`,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	info, err := store.StorageInfo()
	if err != nil {
		return fmt.Errorf("reading storage info: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Chats:    %d\n", info.ChatCount)
	fmt.Fprintf(out, "Messages: %d\n", info.MessageCount)
	fmt.Fprintf(out, "Projects: %d\n", info.ProjectCount)
	fmt.Fprintf(out, "Used:     %s\n", formatBytes(info.BytesUsed))
	if info.BytesQuota > 0 {
		fmt.Fprintf(out, "Quota:    %s\n", formatBytes(info.BytesQuota))
	} else {
		fmt.Fprintf(out, "Quota:    unset\n")
	}

	return nil
}
