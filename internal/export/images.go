package export

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/imaging"
)

// imageURL returns the file:// link written into the Image cell.
func imageURL(ref string) string {
	p := imaging.LocalPath(ref)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}

// checkImages opens every referenced image and reads its first bytes.
// The first unreadable image fails the batch.
func checkImages(records []audit.Record) error {
	buf := make([]byte, 512)
	for i, rec := range records {
		if !rec.HasImage() {
			continue
		}
		path := imaging.LocalPath(rec.ImageReference)
		if err := readHead(path, buf); err != nil {
			return &Error{
				Stage: StageImage,
				Path:  path,
				Err:   fmt.Errorf("entry %d (serial %s): %w", i+1, rec.SerialNumber, err),
			}
		}
	}
	return nil
}

func readHead(path string, buf []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Read(buf); err != nil && err != io.EOF {
		return err
	}
	return nil
}
