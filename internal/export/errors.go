package export

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToExport is returned for an empty record list. No file is produced.
	ErrNothingToExport = errors.New("no entries to export")

	// ErrExport is the sentinel matched by every *Error.
	ErrExport = errors.New("export failed")
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageImage Stage = "image"
	StageBuild Stage = "build"
	StageWrite Stage = "write"
	StageShare Stage = "share"
)

// Error describes a failed export.
type Error struct {
	Stage Stage
	Path  string // file involved, if any
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export %s %s: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("export %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrExport).
func (e *Error) Is(target error) bool {
	return target == ErrExport
}
