// Package toolexec is the execution facade for external tools.
//
// Each supported tool (ffmpeg, ffprobe, ghostscript) gets a Runner that
// builds no shell command lines: arguments are passed to the process as a
// vector, the process runs to completion, and its stdout, stderr, and exit
// status are captured in a Result. Validation of a Result is a pure
// function: success iff the exit status is zero, otherwise a ToolExitError
// carrying the stderr text verbatim.
//
// Binary discovery happens on first use and is cached per Runner. An
// explicit configured path wins; otherwise PATH and a short list of common
// installation directories are searched. A missing binary is reported as a
// distinct ToolNotFoundError since "not installed" is the most actionable
// failure for an end user.
//
// Example:
//
//	ffmpeg := toolexec.New(log, toolexec.FFmpeg)
//	res, err := ffmpeg.RunChecked(ctx, "-i", in, "-c", "copy", "-an", "-y", out)
//	if err != nil {
//	    // ToolNotFoundError or ToolExitError
//	}
package toolexec
