package imaging

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/auditlog/internal/ident"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	return img
}

func TestFileSource_Acquire(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4, 4)

	got, err := FileSource{Path: path}.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = FileSource{Path: "file://" + path}.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFileSource_PercentEncodedURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a b.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))

	uri := (&url.URL{Scheme: "file", Path: path}).String()
	require.Contains(t, uri, "a%20b.jpg")

	got, err := FileSource{Path: uri}.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "", LocalPath(""))
	assert.Equal(t, "/data/a.jpg", LocalPath("/data/a.jpg"))
	assert.Equal(t, "relative/a%20b.jpg", LocalPath("relative/a%20b.jpg"))
	assert.Equal(t, "/data/a b.jpg", LocalPath("file:///data/a%20b.jpg"))
}

func TestFileSource_Canceled(t *testing.T) {
	_, err := FileSource{Path: "  "}.Acquire(context.Background())
	assert.True(t, errors.Is(err, ErrCanceled))
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope.jpg")}.Acquire(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCanceled))
}

func TestFileSource_Directory(t *testing.T) {
	_, err := FileSource{Path: t.TempDir()}.Acquire(context.Background())
	require.Error(t, err)
}

func TestResizer_ScalesDown(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, 1600, 1200)
	outDir := filepath.Join(dir, "out")

	r := Resizer{MaxWidth: 800, Quality: 70, OutDir: outDir, Names: ident.NewFixedGenerator("resized")}
	out, err := r.Transform(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "resized.jpg"), out)

	img := decodeJPEG(t, out)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestResizer_KeepsSmallImages(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, 320, 240)

	r := Resizer{Names: ident.NewFixedGenerator("small")}
	out, err := r.Transform(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "small.jpg"), out)

	img := decodeJPEG(t, out)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestResizer_RejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Resizer{Names: ident.NewFixedGenerator("x")}.Transform(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}

func TestResizer_QualityDefaults(t *testing.T) {
	assert.Equal(t, DefaultQuality, Resizer{}.quality())
	assert.Equal(t, DefaultQuality, Resizer{Quality: 101}.quality())
	assert.Equal(t, 55, Resizer{Quality: 55}.quality())
}
