package toolexec

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dvirzg/Forge/internal/errors"
)

// resolve locates the tool binary, caching the outcome for the lifetime of
// the Runner.
func (r *Runner) resolve() (string, error) {
	r.resolveOnce.Do(func() {
		r.resolved, r.resolveErr = r.discover()
	})

	return r.resolved, r.resolveErr
}

// discover locates the tool binary.
//
// An explicit configured path is used as-is and is the only candidate.
// Otherwise PATH is searched first, then a short list of common
// installation directories.
func (r *Runner) discover() (string, error) {
	if r.path != "" {
		r.log.Debug("Using explicit tool path", "path", r.path)

		if _, err := os.Stat(r.path); err == nil {
			return r.path, nil
		}

		return "", &errors.ToolNotFoundError{
			Tool:     string(r.tool),
			Searched: []string{r.path},
		}
	}

	searched := make([]string, 0, 5)

	if path, err := exec.LookPath(string(r.tool)); err == nil {
		r.log.Debug("Found tool in PATH", "path", path)

		return path, nil
	}

	searched = append(searched, "$PATH")

	commonDirs := []string{
		"/usr/local/bin",
		"/usr/bin",
		"/opt/homebrew/bin",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonDirs = append(commonDirs, filepath.Join(homeDir, ".local/bin"))
	}

	for _, dir := range commonDirs {
		candidate := filepath.Join(dir, string(r.tool))
		searched = append(searched, candidate)

		if _, err := os.Stat(candidate); err == nil {
			r.log.Debug("Found tool at common path", "path", candidate)

			return candidate, nil
		}
	}

	r.log.Warn("Tool not found in any searched location", "searched", searched)

	return "", &errors.ToolNotFoundError{
		Tool:     string(r.tool),
		Searched: searched,
	}
}
