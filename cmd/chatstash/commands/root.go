// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Shared storage opening honoring the --db override
package commands

import (
	"github.com/spf13/cobra"

	"github.com/harper/chatstash/internal/config"
	"github.com/harper/chatstash/internal/storage/sqlite"
)

// Global flags shared across subcommands
var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
)

const banner = `
 ██████╗██╗  ██╗ █████╗ ████████╗███████╗████████╗ █████╗ ███████╗██╗  ██╗
██╔════╝██║  ██║██╔══██╗╚══██╔══╝██╔════╝╚══██╔══╝██╔══██╗██╔════╝██║  ██║
██║     ███████║███████║   ██║   ███████╗   ██║   ███████║███████╗███████║
██║     ██╔══██║██╔══██║   ██║   ╚════██║   ██║   ██╔══██║╚════██║██╔══██║
╚██████╗██║  ██║██║  ██║   ██║   ███████║   ██║   ██║  ██║███████║██║  ██║
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatstash",
		Short: "Local-first chat cache",
		Long: banner + `
Chatstash is a local-first cache for chats, messages, and projects.
All data lives in an embedded SQLite database; the remote chat system
reads and writes through the same operations you use here, so offline
work and cloud backup share one storage path.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (defaults to the XDG data dir)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewAddCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewTitleCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// DefaultDBPath exposes the storage default for display in help and status
func DefaultDBPath() string {
	return sqlite.DefaultDBPath()
}

// openStore opens the cache, honoring --db over CHATSTASH_DB over the
// XDG default
func openStore() (*sqlite.Storage, error) {
	path := dbPath
	var quota int64
	if cfg, err := config.Load(); err == nil {
		quota = cfg.QuotaBytes
		if path == "" {
			path = cfg.DBPath
		}
	}
	if path == "" {
		path = sqlite.DefaultDBPath()
	}

	store, err := sqlite.NewStorageWithPath(path)
	if err != nil {
		return nil, err
	}
	if quota > 0 {
		store.SetQuotaBytes(quota)
	}
	return store, nil
}
