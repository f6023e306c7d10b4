package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/auditlog/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	ShareDir string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved entries to a spreadsheet",
		Long: `Export every saved entry to audit_entries_<date>.xlsx and share it.

The spreadsheet is written to the configured export directory. When a
share directory is set (flag or config), a copy is placed there.
Attached images appear as links to the local file.

Example:
  auditlog export
  auditlog export --share-dir ~/Outbox`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ShareDir, "share-dir", "", "directory receiving the shared copy")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.records.Load(cmd.Context())
	if err != nil {
		return a.out.Fail("failed to load saved entries", err)
	}

	res, err := a.pipeline(opts.ShareDir).Export(cmd.Context(), records)
	if errors.Is(err, export.ErrNothingToExport) {
		return a.out.Fail("No entries to export", err)
	}
	if err != nil {
		return a.out.Fail("Failed to export data", err)
	}

	return a.out.Success(fmt.Sprintf("Exported %s to %s", plural(len(records)), res.Path), map[string]interface{}{
		"path":       res.Path,
		"rows":       res.Rows,
		"exportedAt": res.ExportedAt,
	})
}
