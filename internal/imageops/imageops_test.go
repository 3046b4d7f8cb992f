package imageops

import (
	"bytes"
	stderrors "errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvirzg/Forge/internal/errors"
	"github.com/dvirzg/Forge/internal/quality"
)

// writeTestImage writes a 4x2 PNG with a red top-left pixel so orientation
// changes are observable.
func writeTestImage(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := range 2 {
		for x := range 4 {
			img.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}

	img.Set(0, 0, color.NRGBA{R: 255, A: 255})

	path := filepath.Join(dir, "in.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	return path
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	return img
}

func TestRotate_SwapsDimensions(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.png")

	svc := New(slog.Default())
	require.NoError(t, svc.Rotate(in, out, 90))

	got := decode(t, out)
	require.Equal(t, 2, got.Bounds().Dx())
	require.Equal(t, 4, got.Bounds().Dy())
}

func TestRotate_UnsupportedDegreesRejectedBeforeOpen(t *testing.T) {
	svc := New(slog.Default())

	// The input path does not exist; rejection must happen first.
	err := svc.Rotate("/nonexistent/in.png", "/nonexistent/out.png", 45)
	require.Error(t, err)

	var paramErr *errors.UnsupportedParamError
	require.True(t, stderrors.As(err, &paramErr))
	require.Equal(t, "degrees", paramErr.Param)
	require.Equal(t, errors.CodeBadParam, errors.CodeOf(err))
}

func TestFlip(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.png")

	svc := New(slog.Default())
	require.NoError(t, svc.Flip(in, out, "horizontal"))

	got := decode(t, out)
	// Red pixel moved from (0,0) to (3,0).
	r, _, _, _ := got.At(3, 0).RGBA()
	require.NotZero(t, r)
}

func TestFlip_UnknownDirection(t *testing.T) {
	svc := New(slog.Default())

	err := svc.Flip("/nonexistent/in.png", "/nonexistent/out.png", "diagonal")
	require.Error(t, err)

	var paramErr *errors.UnsupportedParamError
	require.True(t, stderrors.As(err, &paramErr))
	require.Equal(t, "direction", paramErr.Param)
}

func TestCrop(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.png")

	svc := New(slog.Default())
	require.NoError(t, svc.Crop(in, out, 1, 0, 2, 2))

	got := decode(t, out)
	require.Equal(t, 2, got.Bounds().Dx())
	require.Equal(t, 2, got.Bounds().Dy())
}

func TestCrop_OutOfBounds(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)

	svc := New(slog.Default())

	err := svc.Crop(in, filepath.Join(dir, "out.png"), 2, 0, 10, 2)
	require.Error(t, err)
	require.Equal(t, errors.CodeBadParam, errors.CodeOf(err))

	err = svc.Crop(in, filepath.Join(dir, "out.png"), 0, 0, 0, 2)
	require.Error(t, err)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.jpg")

	svc := New(slog.Default())
	require.NoError(t, svc.Convert(in, out, "jpg"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
}

func TestConvert_UnknownFormatRejected(t *testing.T) {
	svc := New(slog.Default())

	err := svc.Convert("/nonexistent/in.png", "/nonexistent/out.xyz", "xyz")
	require.Error(t, err)
	require.Equal(t, errors.CodeBadParam, errors.CodeOf(err))
}

func TestConvert_WebpTargetRejected(t *testing.T) {
	svc := New(slog.Default())

	err := svc.Convert("/nonexistent/in.png", "/nonexistent/out.webp", "webp")
	require.Error(t, err)
	require.Equal(t, errors.CodeBadParam, errors.CodeOf(err))
}

func TestCompress_JPEGQualityReducesSize(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)

	svc := New(slog.Default())

	high := filepath.Join(dir, "high.jpg")
	low := filepath.Join(dir, "low.jpg")
	require.NoError(t, svc.Compress(in, high, quality.LevelLossless))
	require.NoError(t, svc.Compress(in, low, quality.LevelLow))

	hi, err := os.Stat(high)
	require.NoError(t, err)
	lo, err := os.Stat(low)
	require.NoError(t, err)
	require.LessOrEqual(t, lo.Size(), hi.Size())
}

func TestStripMetadata(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	out := filepath.Join(dir, "stripped.png")

	svc := New(slog.Default())
	require.NoError(t, svc.StripMetadata(in, out))

	got := decode(t, out)
	require.Equal(t, 4, got.Bounds().Dx())
}

func TestPreview_ReturnsPNGBytes(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)

	svc := New(slog.Default())

	data, err := svc.RotatePreview(in, 180)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 4, img.Bounds().Dx())

	data, err = svc.CropPreview(in, 0, 0, 2, 1)
	require.NoError(t, err)

	img, _, err = image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())
}

func TestMetadata(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)

	svc := New(slog.Default())

	payload, err := svc.Metadata(in)
	require.NoError(t, err)
	require.Equal(t, 4, payload["width"])
	require.Equal(t, 2, payload["height"])
	require.Equal(t, "png", payload["format"])
	require.NotZero(t, payload["size"])
}

func TestMetadata_MissingFile(t *testing.T) {
	svc := New(slog.Default())

	_, err := svc.Metadata("/nonexistent/in.png")
	require.Error(t, err)
	require.Equal(t, errors.CodeIO, errors.CodeOf(err))
}
