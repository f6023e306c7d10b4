package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/auditlog/internal/audit"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved audit entries",
		Long: `List saved audit entries in the order they were recorded.

Example:
  auditlog list
  auditlog list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.records.Load(cmd.Context())
	if err != nil {
		return a.out.Fail("failed to load saved entries", err)
	}

	var b strings.Builder
	writeRecords(&b, records)
	return a.out.Success(strings.TrimRight(b.String(), "\n"), map[string]interface{}{
		"count":   len(records),
		"entries": records,
	})
}

// writeRecords renders one line per record followed by a count.
func writeRecords(w io.Writer, records []audit.Record) {
	for i, r := range records {
		fmt.Fprintf(w, "%d. [%s] %s @ %s", i+1, r.Priority, r.SerialNumber, r.Location)
		if r.Status != "" {
			fmt.Fprintf(w, " (%s)", r.Status)
		}
		if r.HasImage() {
			fmt.Fprint(w, " +image")
		}
		fmt.Fprintln(w)
		if r.Observation != "" {
			fmt.Fprintf(w, "   observation: %s\n", r.Observation)
		}
		if r.Recommendation != "" {
			fmt.Fprintf(w, "   recommendation: %s\n", r.Recommendation)
		}
	}
	fmt.Fprintf(w, "%s\n", plural(len(records)))
}
