package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Wire error codes forming the closed failure taxonomy. Every error that
// crosses the RPC boundary maps to exactly one of these.
const (
	CodeToolMissing = "tool_missing"
	CodeToolFailed  = "tool_failed"
	CodeBadParam    = "bad_param"
	CodeIO          = "io_error"
	CodeUnknownOp   = "unknown_op"
	CodeInternal    = "internal"
)

// ForgeError is the base interface for all backend errors.
// Code returns the wire error code for the RPC boundary.
type ForgeError interface {
	error
	Code() string
}

// Compile-time verification that all error types implement ForgeError.
var (
	_ ForgeError = (*ToolNotFoundError)(nil)
	_ ForgeError = (*ToolExitError)(nil)
	_ ForgeError = (*UnsupportedParamError)(nil)
	_ ForgeError = (*ParamError)(nil)
	_ ForgeError = (*IOError)(nil)
	_ ForgeError = (*UnknownOpError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEmptyFind indicates a text replacement with an empty search string.
	ErrEmptyFind = errors.New("find string cannot be empty")

	// ErrNoInputs indicates an operation was invoked with an empty input list.
	ErrNoInputs = errors.New("at least one input file is required")

	// ErrServerClosed indicates the RPC server has been shut down.
	ErrServerClosed = errors.New("server closed")
)

// ToolNotFoundError indicates an external tool binary could not be located.
// This is the most actionable failure for an end user: the tool is not
// installed.
type ToolNotFoundError struct {
	Tool     string
	Searched []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found (searched: %s); make sure it is installed",
		e.Tool, strings.Join(e.Searched, ", "))
}

// Code implements ForgeError.
func (e *ToolNotFoundError) Code() string { return CodeToolMissing }

// ToolExitError indicates an external tool ran but exited with a non-zero
// status. Stderr carries the tool's diagnostic output verbatim.
type ToolExitError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ToolExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed (exit %d)", e.Tool, e.ExitCode)
	}

	return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, e.Stderr)
}

// Code implements ForgeError.
func (e *ToolExitError) Code() string { return CodeToolFailed }

// UnsupportedParamError indicates a parameter outside its fixed allowed set.
// It is raised before any file is opened or process spawned.
type UnsupportedParamError struct {
	Param   string
	Value   string
	Allowed []string
}

func (e *UnsupportedParamError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("unsupported %s: %q", e.Param, e.Value)
	}

	return fmt.Sprintf("unsupported %s: %q (allowed: %s)",
		e.Param, e.Value, strings.Join(e.Allowed, ", "))
}

// Code implements ForgeError.
func (e *UnsupportedParamError) Code() string { return CodeBadParam }

// ParamError indicates a request parameter that is missing or has the
// wrong type.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q %s", e.Param, e.Reason)
}

// Code implements ForgeError.
func (e *ParamError) Code() string { return CodeBadParam }

// IOError wraps a filesystem failure (open, read, write, remove) with the
// operation and path that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Code implements ForgeError.
func (e *IOError) Code() string { return CodeIO }

// UnknownOpError indicates a request named an operation that is not
// registered.
type UnknownOpError struct {
	Op string
}

func (e *UnknownOpError) Error() string {
	return fmt.Sprintf("unknown operation: %q", e.Op)
}

// Code implements ForgeError.
func (e *UnknownOpError) Code() string { return CodeUnknownOp }

// CodeOf returns the wire code for err, walking the wrap chain.
// Errors outside the taxonomy map to CodeInternal.
func CodeOf(err error) string {
	var fe ForgeError
	if errors.As(err, &fe) {
		return fe.Code()
	}

	if errors.Is(err, ErrEmptyFind) || errors.Is(err, ErrNoInputs) {
		return CodeBadParam
	}

	return CodeInternal
}

// DetailOf returns the diagnostic payload attached to err, if any.
// For tool failures this is the captured stderr text.
func DetailOf(err error) string {
	var exit *ToolExitError
	if errors.As(err, &exit) {
		return exit.Stderr
	}

	return ""
}
