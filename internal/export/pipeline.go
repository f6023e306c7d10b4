package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/ident"
)

// Result describes a completed export.
type Result struct {
	// Path is the spreadsheet written to the scratch directory.
	Path string

	// Rows counts the header plus one row per record.
	Rows int

	// ExportedAt is the timestamp written into every Entry Date cell.
	ExportedAt time.Time
}

// Pipeline exports records to a spreadsheet and shares it.
type Pipeline struct {
	dir    string
	clock  Clock
	sharer Sharer
	names  ident.Generator
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDir sets the scratch directory (default os.TempDir()).
func WithDir(dir string) Option {
	return func(p *Pipeline) { p.dir = dir }
}

// WithClock sets the export clock (default SystemClock).
func WithClock(c Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithSharer sets the share target (default NopSharer).
func WithSharer(s Sharer) Option {
	return func(p *Pipeline) { p.sharer = s }
}

// WithNames sets the generator for scratch file names (default UUIDv7).
func WithNames(g ident.Generator) Option {
	return func(p *Pipeline) { p.names = g }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		dir:    os.TempDir(),
		clock:  SystemClock{},
		sharer: NopSharer{},
		names:  ident.UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FileName returns the export filename for date t.
func FileName(t time.Time) string {
	return fmt.Sprintf("audit_entries_%s.xlsx", t.Format(DateLayout))
}

// Export writes records to a spreadsheet and shares it.
//
// Returns ErrNothingToExport for an empty list. Any other failure is an
// *Error; the scratch file is removed so nothing half-written or unshared
// remains.
func (p *Pipeline) Export(ctx context.Context, records []audit.Record) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkImages(records); err != nil {
		return nil, err
	}

	exportedAt := p.clock.Now()
	wb, err := buildWorkbook(records, exportedAt)
	if err != nil {
		return nil, &Error{Stage: StageBuild, Err: err}
	}
	defer wb.Close()

	final := filepath.Join(p.dir, FileName(exportedAt))
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, &Error{Stage: StageWrite, Path: p.dir, Err: err}
	}

	partial := filepath.Join(p.dir, "."+filepath.Base(final)+"."+p.names.Generate()+".partial")
	if err := writeFile(partial, wb); err != nil {
		os.Remove(partial)
		return nil, &Error{Stage: StageWrite, Path: partial, Err: err}
	}
	if err := os.Rename(partial, final); err != nil {
		os.Remove(partial)
		return nil, &Error{Stage: StageWrite, Path: final, Err: err}
	}
	p.logger.Debug("export written", "path", final, "count", len(records))

	req := ShareRequest{Path: final, MIMEType: SpreadsheetMIME, Title: ShareTitle}
	if err := p.sharer.Share(ctx, req); err != nil {
		if rmErr := os.Remove(final); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			p.logger.Warn("failed to remove unshared export", "path", final, "error", rmErr)
		}
		return nil, &Error{Stage: StageShare, Path: final, Err: err}
	}

	p.logger.Info("export complete", "path", final, "count", len(records))
	return &Result{Path: final, Rows: len(records) + 1, ExportedAt: exportedAt}, nil
}

func writeFile(path string, wb *excelize.File) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := wb.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
