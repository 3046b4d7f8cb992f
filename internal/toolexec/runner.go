package toolexec

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/dvirzg/Forge/internal/errors"
)

// Tool identifies an external executable.
type Tool string

const (
	FFmpeg      Tool = "ffmpeg"
	FFprobe     Tool = "ffprobe"
	Ghostscript Tool = "gs"
)

// versionArg returns the flag used for the advisory availability probe.
func (t Tool) versionArg() string {
	switch t {
	case FFmpeg, FFprobe:
		return "-version"
	default:
		return "--version"
	}
}

// Result holds the captured output of a completed process invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Validate turns a captured result into a success/failure verdict.
// Success iff the exit status is zero; otherwise the returned ToolExitError
// embeds the captured stderr so the failure is diagnosable without
// re-running the tool.
func Validate(tool Tool, res *Result) error {
	if res.ExitCode == 0 {
		return nil
	}

	return &errors.ToolExitError{
		Tool:     string(tool),
		ExitCode: res.ExitCode,
		Stderr:   string(bytes.TrimSpace(res.Stderr)),
	}
}

// Invoker is the minimal interface operations depend on. It is satisfied by
// Runner and by fakes in tests.
type Invoker interface {
	// Tool returns the tool identity.
	Tool() Tool

	// Run invokes the tool with the given argument vector and captures its
	// output. A non-zero exit status is not an error at this layer; spawn
	// failures are.
	Run(ctx context.Context, args ...string) (*Result, error)

	// RunChecked runs and validates in one step.
	RunChecked(ctx context.Context, args ...string) (*Result, error)

	// Available reports whether the tool can be spawned at all. Purely
	// advisory; callers need not probe before real work.
	Available(ctx context.Context) bool
}

// Runner invokes one external tool as a subprocess.
type Runner struct {
	log  *slog.Logger
	tool Tool
	path string // explicit binary override, empty means discover

	resolveOnce sync.Once
	resolved    string
	resolveErr  error
}

// Compile-time verification that Runner implements Invoker.
var _ Invoker = (*Runner)(nil)

// New creates a Runner that discovers the tool binary on first use.
func New(log *slog.Logger, tool Tool) *Runner {
	return NewWithPath(log, tool, "")
}

// NewWithPath creates a Runner bound to an explicit binary path. An empty
// path behaves like New.
func NewWithPath(log *slog.Logger, tool Tool, path string) *Runner {
	return &Runner{
		log:  log.With("component", "toolexec", "tool", string(tool)),
		tool: tool,
		path: path,
	}
}

// Tool implements Invoker.
func (r *Runner) Tool() Tool { return r.tool }

// Run spawns the tool with args and waits for it to exit, capturing stdout
// and stderr. There is no shell interpretation and no timeout: a hung tool
// hangs its caller.
//
// Returns ToolNotFoundError when the binary cannot be located or spawned.
// A non-zero exit is reported through Result.ExitCode, not an error; use
// Validate or RunChecked to classify it.
func (r *Runner) Run(ctx context.Context, args ...string) (*Result, error) {
	bin, err := r.resolve()
	if err != nil {
		return nil, err
	}

	r.log.Debug("Running tool", "bin", bin, "args", args)

	//nolint:gosec // G204: argument-vector invocation of a discovered tool is the point of this package
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	res := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			r.log.Debug("Tool exited non-zero", "exit_code", res.ExitCode)

			return res, nil
		}

		// The binary resolved but could not be spawned (removed since
		// discovery, not executable). Same user remedy as not found.
		r.log.Error("Failed to spawn tool", "bin", bin, "error", runErr)

		return nil, &errors.ToolNotFoundError{
			Tool:     string(r.tool),
			Searched: []string{bin},
		}
	}

	return res, nil
}

// RunChecked runs the tool and validates the result, returning a
// ToolExitError on non-zero exit.
func (r *Runner) RunChecked(ctx context.Context, args ...string) (*Result, error) {
	res, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	if err := Validate(r.tool, res); err != nil {
		return res, err
	}

	return res, nil
}

// Available reports whether the tool can be located and spawned, by invoking
// it with its version flag.
func (r *Runner) Available(ctx context.Context) bool {
	_, err := r.Run(ctx, r.tool.versionArg())

	return err == nil
}
