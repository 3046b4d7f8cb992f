// Package pdfops implements PDF manipulation: merging, rotation, text and
// image extraction, and Ghostscript-based compression.
package pdfops

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/klauspost/compress/gzip"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/dvirzg/Forge/internal/errors"
	"github.com/dvirzg/Forge/internal/fsutil"
	"github.com/dvirzg/Forge/internal/quality"
	"github.com/dvirzg/Forge/internal/toolexec"
)

// Service performs PDF operations. Compression shells out to Ghostscript;
// everything else runs in-process.
type Service struct {
	log *slog.Logger
	gs  toolexec.Invoker
}

// New creates a PDF service backed by the given Ghostscript invoker.
func New(log *slog.Logger, gs toolexec.Invoker) *Service {
	return &Service{
		log: log.With("component", "pdfops"),
		gs:  gs,
	}
}

// Merge concatenates the input documents, in order, into outPath.
func (s *Service) Merge(inPaths []string, outPath string) error {
	if len(inPaths) == 0 {
		return errors.ErrNoInputs
	}

	s.log.Debug("merging documents", "count", len(inPaths), "out", outPath)

	if err := api.MergeCreateFile(inPaths, outPath, false, nil); err != nil {
		return &errors.IOError{Op: "merge pdf", Path: outPath, Err: err}
	}

	return nil
}

// Rotate rotates pages by the given degrees, which must be a multiple of 90.
// An empty page selection rotates every page; entries use pdfcpu selection
// syntax ("1", "2-5", "even").
func (s *Service) Rotate(inPath, outPath string, degrees int, pages []string) error {
	if degrees%90 != 0 {
		return &errors.UnsupportedParamError{
			Param:   "degrees",
			Value:   fmt.Sprintf("%d", degrees),
			Allowed: []string{"multiples of 90"},
		}
	}

	if err := api.RotateFile(inPath, outPath, degrees, pages, nil); err != nil {
		return &errors.IOError{Op: "rotate pdf", Path: inPath, Err: err}
	}

	return nil
}

// ExtractText returns the text of every page, concatenated in page order
// with form-feed separators.
func (s *Service) ExtractText(inPath string) (string, error) {
	doc, err := fitz.New(inPath)
	if err != nil {
		return "", &errors.IOError{Op: "open pdf", Path: inPath, Err: err}
	}
	defer doc.Close()

	var sb strings.Builder

	for n := range doc.NumPage() {
		text, err := doc.Text(n)
		if err != nil {
			return "", &errors.IOError{Op: fmt.Sprintf("extract text from page %d", n+1), Path: inPath, Err: err}
		}

		if n > 0 {
			sb.WriteByte('\f')
		}

		sb.WriteString(text)
	}

	return sb.String(), nil
}

// ExtractImages writes the embedded images of the document into outDir and
// returns the extracted file paths. When archivePath is non-empty the
// extracted files are additionally packed into a gzip tar archive there.
func (s *Service) ExtractImages(inPath, outDir, archivePath string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &errors.IOError{Op: "create output dir", Path: outDir, Err: err}
	}

	if err := api.ExtractImagesFile(inPath, outDir, nil, nil); err != nil {
		return nil, &errors.IOError{Op: "extract images", Path: inPath, Err: err}
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, &errors.IOError{Op: "list output dir", Path: outDir, Err: err}
	}

	var files []string

	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(outDir, e.Name()))
		}
	}

	s.log.Debug("extracted images", "source", inPath, "count", len(files))

	if archivePath != "" {
		if err := writeArchive(archivePath, files); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// writeArchive packs files into a gzip-compressed tar at archivePath.
func writeArchive(archivePath string, files []string) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return &errors.IOError{Op: "create archive", Path: archivePath, Err: err}
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	tw := tar.NewWriter(zw)

	for _, path := range files {
		if err := addToArchive(tw, path); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return &errors.IOError{Op: "finalize archive", Path: archivePath, Err: err}
	}

	if err := zw.Close(); err != nil {
		return &errors.IOError{Op: "finalize archive", Path: archivePath, Err: err}
	}

	return f.Close()
}

func addToArchive(tw *tar.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return &errors.IOError{Op: "open archive member", Path: path, Err: err}
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return &errors.IOError{Op: "stat archive member", Path: path, Err: err}
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return &errors.IOError{Op: "archive member header", Path: path, Err: err}
	}

	hdr.Name = filepath.Base(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return &errors.IOError{Op: "write archive header", Path: path, Err: err}
	}

	if _, err := io.Copy(tw, src); err != nil {
		return &errors.IOError{Op: "write archive member", Path: path, Err: err}
	}

	return nil
}

// Compress rewrites the document through Ghostscript's pdfwrite device using
// the profile of the given quality level.
func (s *Service) Compress(ctx context.Context, inPath, outPath string, level quality.Level) error {
	_, err := s.gs.RunChecked(ctx,
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS="+level.Ghostscript(),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile="+outPath,
		inPath,
	)

	return err
}

// Metadata reports the page count, document title and file details.
func (s *Service) Metadata(inPath string) (map[string]any, error) {
	count, err := api.PageCountFile(inPath)
	if err != nil {
		return nil, &errors.IOError{Op: "read pdf", Path: inPath, Err: err}
	}

	payload := map[string]any{
		"pages": count,
	}

	if doc, err := fitz.New(inPath); err == nil {
		meta := doc.Metadata()
		doc.Close()

		if title := strings.TrimSpace(meta["title"]); title != "" {
			payload["title"] = title
		}

		if author := strings.TrimSpace(meta["author"]); author != "" {
			payload["author"] = author
		}
	}

	if info, err := fsutil.Stat(inPath); err == nil {
		payload["size"] = info.Size
		payload["modified"] = info.Modified
	}

	return payload, nil
}
