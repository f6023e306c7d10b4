package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/imaging"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Serial         string
	Location       string
	Observation    string
	Priority       string
	Recommendation string
	Status         string
	Image          string
	From           string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save an audit entry",
		Long: `Save one audit entry from flags, or a batch of entries from a YAML file.

Serial number and location are required. Priority defaults to low.
An attached image is resized and recompressed before its path is stored.

Example:
  auditlog add --serial 1 --location "Warehouse A" --priority high
  auditlog add --from entries.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Serial, "serial", "", "serial number (required)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location (required)")
	cmd.Flags().StringVar(&opts.Observation, "observation", "", "observation text")
	cmd.Flags().StringVar(&opts.Priority, "priority", string(audit.DefaultPriority), "priority (low|medium|high)")
	cmd.Flags().StringVar(&opts.Recommendation, "recommendation", "", "recommendation text")
	cmd.Flags().StringVar(&opts.Status, "status", "", "status text")
	cmd.Flags().StringVar(&opts.Image, "image", "", "path to a photo to attach")
	cmd.Flags().StringVar(&opts.From, "from", "", "YAML file with a list of entries")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	var entries []audit.Record
	if opts.From != "" {
		var err error
		entries, err = readEntriesFile(opts.From)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read entries file", err)
		}
	} else {
		entries = []audit.Record{{
			SerialNumber:   opts.Serial,
			Location:       opts.Location,
			Observation:    opts.Observation,
			Priority:       audit.Priority(opts.Priority),
			Recommendation: opts.Recommendation,
			Status:         opts.Status,
			ImageReference: opts.Image,
		}}
	}

	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	saved := make([]audit.Record, 0, len(entries))
	for i, entry := range entries {
		rec, err := commitEntry(cmd, a, entry)
		if err != nil {
			return a.out.Fail(fmt.Sprintf("entry %d not saved", i+1), err)
		}
		saved = append(saved, rec)
		a.out.VerboseLog("saved %s at %s", rec.SerialNumber, rec.Location)
	}

	return a.out.Success(fmt.Sprintf("Saved %s.", plural(len(saved))), map[string]interface{}{
		"saved":   len(saved),
		"entries": saved,
	})
}

// commitEntry drives a fresh session through the same steps a form would.
func commitEntry(cmd *cobra.Command, a *app, entry audit.Record) (audit.Record, error) {
	s := a.newSession()
	for _, f := range audit.Fields {
		if f == audit.FieldImageReference {
			continue
		}
		v := entry.Get(f)
		if f == audit.FieldPriority && v == "" {
			continue
		}
		if err := s.Update(f, v); err != nil {
			return audit.Record{}, err
		}
	}

	if entry.ImageReference != "" {
		src := imaging.FileSource{Path: entry.ImageReference}
		if _, err := s.AttachImage(cmd.Context(), src, a.resizer()); err != nil {
			return audit.Record{}, err
		}
	}

	return s.Commit(cmd.Context(), a.records)
}

// entriesFile is the YAML layout accepted by add --from.
type entriesFile struct {
	Entries []audit.Record `yaml:"entries"`
}

func readEntriesFile(path string) ([]audit.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f entriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("%s: no entries", path)
	}
	return f.Entries, nil
}
