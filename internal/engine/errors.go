// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName is returned when a command or engine name is empty.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidTemplate is returned when an argument template does not contain the placeholder exactly once.
	ErrInvalidTemplate = fmt.Errorf("argument template must contain %s exactly once", Placeholder)
	// ErrDuplicateCommand is returned when a command with the same name is already registered.
	ErrDuplicateCommand = errors.New("duplicate command")
	// ErrUnknownCommand is returned when executing a command that is not registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrExecutionFailed is returned when the engine executable could not be started or exited non-zero.
	ErrExecutionFailed = errors.New("execution failed")
	// ErrLaunch is returned together with ErrExecutionFailed when the executable could not be started.
	ErrLaunch = errors.New("could not launch executable")
	// ErrNonZeroExit is returned together with ErrExecutionFailed when the executable exited with a non-zero status.
	ErrNonZeroExit = errors.New("executable exited with non-zero status")
	// ErrOutputCapture is returned together with ErrExecutionFailed when the executable ran but its
	// output or exit status could not be collected.
	ErrOutputCapture = errors.New("could not capture executable output")
	// ErrConfigurationInvalid is returned when an engine or command document is malformed or invalid.
	ErrConfigurationInvalid = errors.New("invalid configuration")
	// ErrMissingExecutable is returned when an engine document has no executable path.
	ErrMissingExecutable = errors.New("missing executable path")
)

// maxStderrInError is the number of stderr bytes quoted by ExecutionError.Error.
const maxStderrInError = 256

// ExecutionError describes a failed command execution.
// It matches ErrExecutionFailed and one of ErrLaunch, ErrNonZeroExit or ErrOutputCapture with errors.Is.
type ExecutionError struct {
	Engine   string   // Name of the engine.
	Command  string   // Name of the command.
	Path     string   // Executable that was run.
	Args     []string // Rendered arguments.
	Started  bool     // Whether the process was started at all.
	ExitCode int      // Exit code, -1 when unknown.
	Stderr   []byte   // Captured standard error, if any.
	Err      error    // Underlying cause, if any.
}

func (e *ExecutionError) stage() error {
	switch {
	case !e.Started:
		return ErrLaunch
	case e.ExitCode == -1 && e.Err != nil:
		return ErrOutputCapture
	case e.ExitCode != 0:
		return ErrNonZeroExit
	default:
		return ErrOutputCapture
	}
}

// Error implements the error interface for ExecutionError.
// Only the first line of stderr is quoted, the full output stays in Stderr.
func (e *ExecutionError) Error() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%s: engine %q command %q: ", ErrExecutionFailed, e.Engine, e.Command)

	switch stage := e.stage(); stage {
	case ErrNonZeroExit:
		fmt.Fprintf(&sb, "%s: %s (exit code %d)", e.Path, stage, e.ExitCode)
	default:
		fmt.Fprintf(&sb, "%s: %s", e.Path, stage)
	}

	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}

	if stderr := stderrSummary(e.Stderr); stderr != "" {
		fmt.Fprintf(&sb, ": %s", stderr)
	}

	return sb.String()
}

// Unwrap allows errors.Is and errors.As to see the error kind, the stage and the cause.
func (e *ExecutionError) Unwrap() []error {
	errs := []error{ErrExecutionFailed, e.stage()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

func stderrSummary(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	first, _, _ := strings.Cut(s, "\n")
	first = strings.TrimSpace(first)

	if len(first) > maxStderrInError {
		first = strings.ToValidUTF8(first[:maxStderrInError], "")
	}

	if len(first) < len(s) {
		first += " ..."
	}

	return first
}

// configError formats an error that matches ErrConfigurationInvalid and anything wrapped with %w.
func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfigurationInvalid}, args...)...)
}
