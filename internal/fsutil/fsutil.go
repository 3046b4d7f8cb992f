// Package fsutil provides path derivation and temp-file helpers shared by
// the conversion operations.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// OutputPath derives an output path from an input path by inserting suffix
// before the extension. The extension is replaced with ext when ext is
// non-empty, otherwise the input's extension is kept.
//
//	OutputPath("/a/photo.png", "rotated", "")    -> /a/photo_rotated.png
//	OutputPath("/a/doc.pdf", "compressed", "pdf") -> /a/doc_compressed.pdf
func OutputPath(input, suffix, ext string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)

	oldExt := filepath.Ext(base)

	stem := strings.TrimSuffix(base, oldExt)
	if stem == "" {
		stem = "output"
	}

	if ext == "" {
		ext = strings.TrimPrefix(oldExt, ".")
	}

	if ext == "" {
		return filepath.Join(dir, fmt.Sprintf("%s_%s", stem, suffix))
	}

	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stem, suffix, ext))
}

// TempPath returns a unique path in dir for an intermediate file. ULIDs keep
// concurrent operations from colliding. An empty dir falls back to the OS
// temp directory.
func TempPath(dir, prefix, ext string) string {
	if dir == "" {
		dir = os.TempDir()
	}

	name := fmt.Sprintf("%s_%s.%s", prefix, ulid.Make().String(), ext)

	return filepath.Join(dir, name)
}

// Info holds filesystem metadata attached to metadata results.
type Info struct {
	Size     int64  `json:"size"`
	Modified string `json:"modified,omitempty"`
}

const timeLayout = "2006-01-02 15:04:05"

// Stat returns size and formatted modification time for path.
func Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	info := Info{Size: fi.Size()}

	if mt := fi.ModTime(); !mt.IsZero() {
		info.Modified = mt.Local().Format(timeLayout)
	}

	return info, nil
}

// RemoveQuietly deletes path, ignoring errors. Used for best-effort cleanup
// of intermediate files.
func RemoveQuietly(path string) {
	_ = os.Remove(path)
}
