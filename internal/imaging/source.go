package imaging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCanceled is returned when the user backs out of image selection.
var ErrCanceled = errors.New("image selection canceled")

// Source acquires an image and returns a reference to it.
type Source interface {
	Acquire(ctx context.Context) (string, error)
}

// FileSource picks an existing file from the local file system.
// An empty Path behaves like a canceled picker.
type FileSource struct {
	Path string
}

// Acquire implements Source. The returned path is absolute.
func (s FileSource) Acquire(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := strings.TrimSpace(s.Path)
	if path == "" {
		return "", ErrCanceled
	}
	path = LocalPath(path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve image path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("image %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("image %s: is a directory", abs)
	}
	return abs, nil
}
