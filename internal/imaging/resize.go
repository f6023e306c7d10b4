package imaging

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/roach88/auditlog/internal/ident"
)

// Defaults applied to photos before their reference is stored.
const (
	DefaultMaxWidth = 800
	DefaultQuality  = 70
)

// Transformer rewrites an image and returns the path of the result.
type Transformer interface {
	Transform(ctx context.Context, path string) (string, error)
}

// Resizer scales images down to MaxWidth (aspect ratio kept) and
// re-encodes them as JPEG at Quality. Images already narrower than
// MaxWidth are only recompressed.
type Resizer struct {
	MaxWidth int
	Quality  int

	// OutDir receives the rewritten files. Defaults to the source directory.
	OutDir string

	// Names generates output file names. Defaults to UUIDv7.
	Names ident.Generator
}

// Transform implements Transformer.
func (r Resizer) Transform(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", path, err)
	}

	dst := r.scale(src)

	outDir := r.OutDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	names := r.Names
	if names == nil {
		names = ident.UUIDv7Generator{}
	}
	outPath := filepath.Join(outDir, names.Generate()+".jpg")

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: r.quality()}); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("close image: %w", err)
	}
	return outPath, nil
}

func (r Resizer) scale(src image.Image) image.Image {
	b := src.Bounds()
	maxW := r.MaxWidth
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	if b.Dx() <= maxW {
		return src
	}
	h := b.Dy() * maxW / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func (r Resizer) quality() int {
	if r.Quality < 1 || r.Quality > 100 {
		return DefaultQuality
	}
	return r.Quality
}
