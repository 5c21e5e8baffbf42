// ABOUTME: Sync commands for Charm cloud snapshot backup
// ABOUTME: Provides status, push, pull, and wipe management
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/chatstash/internal/charm"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud snapshot backups",
		Long: `Manage snapshot backups against Charm cloud.

Chatstash backs up the local SQLite cache as whole snapshots over
Charm's SSH-key-authenticated KV store. Push exports everything and
stores it; pull fetches a stored snapshot and replaces the local
cache with it.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncWipeCmd())

	return cmd
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backup status and stored snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charm.GetClient()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Status: Not connected")
				fmt.Fprintln(cmd.OutOrStdout(), "Check your Charm SSH keys")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Status: Connected")
			fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id)
			fmt.Fprintf(cmd.OutOrStdout(), "Host: %s\n", os.Getenv("CHARM_HOST"))

			keys, err := client.ListSnapshots()
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots stored")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshots:")
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", key)
			}
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Export the cache and store it as a cloud snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			defer store.Close()

			snapshot, err := store.Export()
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}

			client, err := charm.GetClient()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			key, err := client.PushSnapshot(snapshot)
			if err != nil {
				return fmt.Errorf("pushing snapshot: %w", err)
			}

			chats, messages, projects := snapshot.Counts()
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Pushed %s (%d chats, %d messages, %d projects)\n",
					key, chats, messages, projects)
			}
			return nil
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	var confirm bool
	var key string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch a cloud snapshot and replace the local cache",
		Long: `Fetch a stored snapshot and import it, replacing the local cache.

Pulls the latest snapshot unless --key names a specific one. The
import is all-or-nothing; on failure the local cache is untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "Pull replaces ALL local data!")
				fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			client, err := charm.GetClient()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			snapshot, err := client.PullSnapshot(key)
			if err != nil {
				return fmt.Errorf("pulling snapshot: %w", err)
			}

			store, err := openStore()
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			defer store.Close()

			if err := store.Import(snapshot); err != nil {
				return fmt.Errorf("importing snapshot: %w", err)
			}

			chats, messages, projects := snapshot.Counts()
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Pulled %d chats, %d messages, %d projects\n",
					chats, messages, projects)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm replacing local data")
	cmd.Flags().StringVar(&key, "key", "", "Snapshot key to pull (defaults to latest)")

	return cmd
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all stored cloud snapshots",
		Long: `Delete every snapshot stored in Charm cloud.

WARNING: The local SQLite cache is untouched; only the cloud copies
are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "This will delete ALL cloud snapshots!")
				fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			client, err := charm.GetClient()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			keys, err := client.ListSnapshots()
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}

			for _, key := range keys {
				if err := client.DeleteSnapshot(key); err != nil {
					return fmt.Errorf("failed to delete %s: %w", key, err)
				}
			}
			if err := client.DeleteSnapshot(charm.LatestKey); err == nil && verbose {
				fmt.Fprintln(cmd.OutOrStdout(), "Removed latest pointer")
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d snapshot(s)\n", len(keys))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")

	return cmd
}
