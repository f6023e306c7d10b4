package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SpreadsheetMIME is the content type handed to the share target.
const SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ShareTitle is the dialog title passed with every share request.
const ShareTitle = "Export Audit Entries"

// ShareRequest describes a file handed to the platform share facility.
type ShareRequest struct {
	Path     string
	MIMEType string
	Title    string
}

// Sharer hands an exported file to the platform.
type Sharer interface {
	Share(ctx context.Context, req ShareRequest) error
}

// NopSharer leaves the file where the pipeline wrote it.
type NopSharer struct{}

// Share implements Sharer.
func (NopSharer) Share(context.Context, ShareRequest) error { return nil }

// DirSharer copies the exported file into an outbox directory.
type DirSharer struct {
	Dir    string
	Logger *slog.Logger
}

// Share implements Sharer.
func (d DirSharer) Share(ctx context.Context, req ShareRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create share dir: %w", err)
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dest := filepath.Join(d.Dir, filepath.Base(req.Path))
	same, err := sameFile(req.Path, dest)
	if err != nil {
		return err
	}
	if same {
		logger.Info("export already in share dir", "path", dest, "mime", req.MIMEType)
		return nil
	}

	src, err := os.Open(req.Path)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create shared copy: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy export: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("close shared copy: %w", err)
	}

	logger.Info("export shared", "path", dest, "mime", req.MIMEType)
	return nil
}

// sameFile reports whether dest already names the file at src. A missing
// dest is not an error.
func sameFile(src, dest string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat export: %w", err)
	}
	destInfo, err := os.Stat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat shared copy: %w", err)
	}
	return os.SameFile(srcInfo, destInfo), nil
}
