// ABOUTME: CLI command to export the cache to a snapshot file
// ABOUTME: Supports JSON (canonical), YAML, and Markdown output formats
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
)

// NewExportCmd creates export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to a snapshot file",
		Long: `Export every chat, message, and project to a snapshot file.

JSON is the canonical format and the only one import accepts. The
yaml and markdown formats are for reading and archiving.

Examples:
  chatstash export -o backup.json
  chatstash export -o backup.yaml -f yaml
  chatstash export -o transcript.md -f markdown`,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (required)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, yaml, markdown")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	switch exportFormat {
	case "json":
		err = store.ExportToJSON(exportOutput)
	case "yaml":
		err = store.ExportToYAML(exportOutput)
	case "markdown":
		err = store.ExportToMarkdown(exportOutput)
	default:
		return fmt.Errorf("unknown export format %q (want json, yaml, or markdown)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
	}
	return nil
}
