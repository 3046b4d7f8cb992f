// Package imageops implements the image manipulation operations.
//
// All transforms delegate to the imaging library; this package only
// validates parameters, moves pixels between files, and shapes results.
package imageops

import (
	"bytes"
	"image"
	"log/slog"
	"os"
	"strconv"

	"github.com/disintegration/imaging"

	// Register webp decoding; imaging registers png/jpeg/gif/tiff/bmp.
	_ "golang.org/x/image/webp"

	"github.com/dvirzg/Forge/internal/errors"
	"github.com/dvirzg/Forge/internal/fsutil"
	"github.com/dvirzg/Forge/internal/quality"
)

// allowedDegrees is the fixed set of supported rotation angles.
var allowedDegrees = []string{"90", "180", "270"}

// allowedDirections is the fixed set of supported flip directions.
var allowedDirections = []string{"horizontal", "vertical"}

// outputFormats maps accepted target format names. webp is decode-only:
// there is no pure-Go webp encoder, so it is rejected as a target.
var outputFormats = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpg":  imaging.JPEG,
	"jpeg": imaging.JPEG,
	"gif":  imaging.GIF,
	"bmp":  imaging.BMP,
	"tif":  imaging.TIFF,
	"tiff": imaging.TIFF,
}

var outputFormatNames = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"}

// Service performs image operations.
type Service struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Service {
	return &Service{log: log.With("component", "imageops")}
}

// rotateFunc returns the transform for a supported angle. Angles outside
// {90, 180, 270} are rejected before any file is opened.
func rotateFunc(degrees int) (func(image.Image) *image.NRGBA, error) {
	switch degrees {
	case 90:
		// imaging rotates counter-clockwise; the operation contract is
		// clockwise.
		return imaging.Rotate270, nil
	case 180:
		return imaging.Rotate180, nil
	case 270:
		return imaging.Rotate90, nil
	default:
		return nil, &errors.UnsupportedParamError{
			Param:   "degrees",
			Value:   strconv.Itoa(degrees),
			Allowed: allowedDegrees,
		}
	}
}

// flipFunc returns the transform for a flip direction.
func flipFunc(direction string) (func(image.Image) *image.NRGBA, error) {
	switch direction {
	case "horizontal":
		return imaging.FlipH, nil
	case "vertical":
		return imaging.FlipV, nil
	default:
		return nil, &errors.UnsupportedParamError{
			Param:   "direction",
			Value:   direction,
			Allowed: allowedDirections,
		}
	}
}

// Rotate rotates the image at inPath clockwise by degrees and writes the
// result to outPath.
func (s *Service) Rotate(inPath, outPath string, degrees int) error {
	rotate, err := rotateFunc(degrees)
	if err != nil {
		return err
	}

	img, err := s.open(inPath)
	if err != nil {
		return err
	}

	return s.save(rotate(img), outPath)
}

// RotatePreview rotates in memory and returns the result as PNG bytes.
func (s *Service) RotatePreview(inPath string, degrees int) ([]byte, error) {
	rotate, err := rotateFunc(degrees)
	if err != nil {
		return nil, err
	}

	img, err := s.open(inPath)
	if err != nil {
		return nil, err
	}

	return encodePNG(rotate(img))
}

// Flip mirrors the image horizontally or vertically.
func (s *Service) Flip(inPath, outPath, direction string) error {
	flip, err := flipFunc(direction)
	if err != nil {
		return err
	}

	img, err := s.open(inPath)
	if err != nil {
		return err
	}

	return s.save(flip(img), outPath)
}

// FlipPreview mirrors in memory and returns the result as PNG bytes.
func (s *Service) FlipPreview(inPath, direction string) ([]byte, error) {
	flip, err := flipFunc(direction)
	if err != nil {
		return nil, err
	}

	img, err := s.open(inPath)
	if err != nil {
		return nil, err
	}

	return encodePNG(flip(img))
}

// Crop extracts the rectangle (x, y, x+width, y+height), which must lie
// within the image bounds.
func (s *Service) Crop(inPath, outPath string, x, y, width, height int) error {
	img, err := s.cropped(inPath, x, y, width, height)
	if err != nil {
		return err
	}

	return s.save(img, outPath)
}

// CropPreview crops in memory and returns the result as PNG bytes.
func (s *Service) CropPreview(inPath string, x, y, width, height int) ([]byte, error) {
	img, err := s.cropped(inPath, x, y, width, height)
	if err != nil {
		return nil, err
	}

	return encodePNG(img)
}

func (s *Service) cropped(inPath string, x, y, width, height int) (*image.NRGBA, error) {
	img, err := s.open(inPath)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(x, y, x+width, y+height)
	if width <= 0 || height <= 0 || !rect.In(img.Bounds()) {
		return nil, &errors.UnsupportedParamError{
			Param: "crop",
			Value: rect.String(),
		}
	}

	return imaging.Crop(img, rect), nil
}

// Convert re-encodes the image in the given target format.
func (s *Service) Convert(inPath, outPath, format string) error {
	target, ok := outputFormats[format]
	if !ok {
		return &errors.UnsupportedParamError{
			Param:   "format",
			Value:   format,
			Allowed: outputFormatNames,
		}
	}

	img, err := s.open(inPath)
	if err != nil {
		return err
	}

	return s.encodeTo(outPath, img, target)
}

// Compress re-encodes the image with the quality parameters of the given
// level. The target format is inferred from the output path extension.
func (s *Service) Compress(inPath, outPath string, level quality.Level) error {
	target, err := imaging.FormatFromFilename(outPath)
	if err != nil {
		return &errors.UnsupportedParamError{
			Param:   "output format",
			Value:   outPath,
			Allowed: outputFormatNames,
		}
	}

	img, err := s.open(inPath)
	if err != nil {
		return err
	}

	return s.encodeTo(outPath, img, target,
		imaging.JPEGQuality(level.JPEG()),
		imaging.PNGCompressionLevel(level.PNG()),
	)
}

// StripMetadata decodes and re-saves the image, which drops EXIF and other
// embedded metadata.
func (s *Service) StripMetadata(inPath, outPath string) error {
	img, err := s.open(inPath)
	if err != nil {
		return err
	}

	return s.save(img, outPath)
}

// Metadata returns image dimensions and format plus filesystem info.
func (s *Service) Metadata(inPath string) (map[string]any, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return nil, &errors.IOError{Op: "open image", Path: inPath, Err: err}
	}
	defer f.Close()

	cfg, formatName, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &errors.IOError{Op: "decode image", Path: inPath, Err: err}
	}

	payload := map[string]any{
		"width":  cfg.Width,
		"height": cfg.Height,
		"format": formatName,
	}

	if info, err := fsutil.Stat(inPath); err == nil {
		payload["size"] = info.Size
		payload["modified"] = info.Modified
	}

	return payload, nil
}

func (s *Service) open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &errors.IOError{Op: "open image", Path: path, Err: err}
	}

	return img, nil
}

func (s *Service) save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return &errors.IOError{Op: "save image", Path: path, Err: err}
	}

	s.log.Debug("Wrote image", "path", path)

	return nil
}

func (s *Service) encodeTo(path string, img image.Image, format imaging.Format, opts ...imaging.EncodeOption) error {
	f, err := os.Create(path)
	if err != nil {
		return &errors.IOError{Op: "create image", Path: path, Err: err}
	}

	if err := imaging.Encode(f, img, format, opts...); err != nil {
		f.Close()

		return &errors.IOError{Op: "encode image", Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &errors.IOError{Op: "write image", Path: path, Err: err}
	}

	s.log.Debug("Wrote image", "path", path, "format", format)

	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, &errors.IOError{Op: "encode preview", Path: "", Err: err}
	}

	return buf.Bytes(), nil
}
