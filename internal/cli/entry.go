package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/imaging"
	"github.com/roach88/auditlog/internal/session"
	"github.com/roach88/auditlog/internal/store"
)

// NewEntryCommand creates the interactive entry command.
func NewEntryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entry",
		Short: "Fill in audit entries interactively",
		Long: `Fill in audit entries one line at a time.

Commands:
  set <field> <value>   set serialNumber, location, observation, priority,
                        recommendation or status
  image <path>          attach a photo (resized before it is stored)
  image                 remove the attached photo
  show                  print the entry being edited
  save                  validate and save the entry
  new                   start over (asks first if the entry has data)
  quit                  leave

Example:
  auditlog entry`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(rootOpts, cmd)
		},
	}
}

func runEntry(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	loop := &entryLoop{
		app:     a,
		cmd:     cmd,
		session: a.newSession(),
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}

	// Surface stored-entries problems up front; the form stays usable.
	if records, err := a.records.LoadOrEmpty(cmd.Context()); err != nil {
		fmt.Fprintf(loop.out, "Warning: failed to load saved entries: %v\n", err)
		if errors.Is(err, store.ErrStorageCorrupt) {
			fmt.Fprintln(loop.out, "The next save starts a new list; the unreadable data is kept as a backup.")
		}
	} else {
		fmt.Fprintf(loop.out, "%s saved.\n", plural(len(records)))
	}

	return loop.run()
}

// entryLoop reads commands until quit or end of input.
type entryLoop struct {
	app     *app
	cmd     *cobra.Command
	session *session.Session
	in      *bufio.Scanner
	out     io.Writer
}

func (l *entryLoop) run() error {
	for {
		fmt.Fprint(l.out, "> ")
		if !l.in.Scan() {
			fmt.Fprintln(l.out)
			return l.in.Err()
		}
		line := strings.TrimSpace(l.in.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "set":
			l.set(rest)
		case "image":
			l.image(rest)
		case "show":
			l.show()
		case "save":
			l.save()
		case "new":
			l.startNew()
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(l.out, "Unknown command %q\n", verb)
		}
	}
}

func (l *entryLoop) set(args string) {
	name, value, ok := strings.Cut(args, " ")
	if !ok && name == "" {
		fmt.Fprintln(l.out, "Usage: set <field> <value>")
		return
	}
	if err := l.session.UpdateByName(name, strings.TrimSpace(value)); err != nil {
		fmt.Fprintf(l.out, "Error: %v\n", err)
	}
}

func (l *entryLoop) image(path string) {
	if path == "" {
		l.session.ClearImage()
		fmt.Fprintln(l.out, "Image removed.")
		return
	}
	ref, err := l.session.AttachImage(l.cmd.Context(), imaging.FileSource{Path: path}, l.app.resizer())
	if err != nil {
		fmt.Fprintf(l.out, "Failed to pick image: %v\n", err)
		return
	}
	fmt.Fprintf(l.out, "Image attached: %s\n", ref)
}

func (l *entryLoop) show() {
	r := l.session.Snapshot()
	for _, f := range audit.Fields {
		fmt.Fprintf(l.out, "%s: %s\n", f, r.Get(f))
	}
}

func (l *entryLoop) save() {
	_, err := l.session.Commit(l.cmd.Context(), l.app.records)
	switch {
	case err == nil:
		fmt.Fprintln(l.out, "Entry saved successfully!")
	case audit.IsValidationError(err):
		var ve *audit.ValidationError
		errors.As(err, &ve)
		fmt.Fprintf(l.out, "Please fill in all required fields. (%v)\n", ve)
	default:
		fmt.Fprintf(l.out, "Failed to save entry: %v\n", err)
	}
}

func (l *entryLoop) startNew() {
	if l.session.StartNew(session.ConfirmFunc(l.confirm)) {
		fmt.Fprintln(l.out, "New entry started.")
		return
	}
	fmt.Fprintln(l.out, "Keeping current entry.")
}

// confirm asks a yes/no question on the same input stream. Anything but
// y or yes, including end of input, is a no.
func (l *entryLoop) confirm(prompt string) bool {
	fmt.Fprintf(l.out, "%s [y/N] ", prompt)
	if !l.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(l.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
