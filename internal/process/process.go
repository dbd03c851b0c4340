// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

const (
	maxBufferSize = 8 * 1024 * 1024 // 8MB
)

var (
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrWaitProcess is returned when waiting for the process fails.
	ErrWaitProcess = errors.New("failed to wait for process")
)

// Output is what a finished process left behind.
type Output struct {
	Stdout   []byte // Captured standard output, at most 8MB.
	Stderr   []byte // Captured standard error, at most 8MB.
	ExitCode int    // Exit code reported by the operating system.
}

// Success reports whether the process exited with code zero.
func (o *Output) Success() bool {
	return o != nil && o.ExitCode == 0
}

// OSSpawner starts executables as operating system processes.
// The zero value is ready to use.
type OSSpawner struct {
	// MaxOutput limits the captured size of each stream. Zero means 8MB.
	MaxOutput int64
}

// NewOSSpawner returns a spawner with the default output limit.
func NewOSSpawner() *OSSpawner {
	return &OSSpawner{}
}

// Spawn runs path with args and waits for it to finish.
// The child gets no stdin and inherits the environment and working directory of the caller.
//
// A nil Output means the process was never started. A non-nil Output together with an
// error means the process ran but its output could not be captured completely.
// The context is only used for logging, the child is not killed when it is cancelled.
func (s *OSSpawner) Spawn(ctx context.Context, path string, args []string) (*Output, error) {
	logger := ctxlog.Logger(ctx).With("executable", path)

	limit := s.MaxOutput
	if limit <= 0 {
		limit = maxBufferSize
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut)

		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	stdin, err := os.Open(os.DevNull)
	if err != nil {
		closeAll(rOut, wOut, rErr, wErr)

		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	argv := slices.Concat([]string{filepath.Base(path)}, args)

	logger.Debug("starting process", "args", args)

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{stdin, wOut, wErr},
	})

	// The child owns its copies now.
	closeAll(stdin, wOut, wErr)

	if err != nil {
		closeAll(rOut, rErr)

		logger.Debug("process could not be started", "error", err)

		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	startTime := time.Now()

	logger.Debug("process started", "pid", ps.Pid)

	var stdout, stderr []byte

	g := new(errgroup.Group)
	g.Go(func() error {
		defer rOut.Close() //nolint:errcheck

		var readErr error
		stdout, readErr = readAllUpToMax(ctx, rOut, limit)

		return readErr
	})
	g.Go(func() error {
		defer rErr.Close() //nolint:errcheck

		var readErr error
		stderr, readErr = readAllUpToMax(ctx, rErr, limit)

		return readErr
	})

	state, waitErr := ps.Wait()
	readErr := g.Wait()

	out := &Output{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: -1,
	}

	if waitErr != nil {
		return out, errors.Join(ErrWaitProcess, waitErr)
	}

	out.ExitCode = state.ExitCode()

	logger.Debug("process finished",
		"pid", ps.Pid,
		"exitCode", out.ExitCode,
		"duration", time.Since(startTime).Round(time.Millisecond).String(),
		"stdoutBytes", len(stdout),
		"stderrBytes", len(stderr),
	)

	if readErr != nil {
		return out, readErr
	}

	return out, nil
}

// readAllUpToMax reads r until EOF and keeps at most maxBufferSize bytes.
// It keeps draining past the limit so the child never blocks on a full pipe.
func readAllUpToMax(ctx context.Context, r io.Reader, maxBufferSize int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBufferSize+1)
	if err != nil && err != io.EOF {
		return nil, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > maxBufferSize {
		discarded, _ := io.Copy(io.Discard, r)

		ctxlog.Logger(ctx).Debug(
			"buffer overflow in readAllUpToMax",
			"bytesRead", n+discarded,
			"maxBytes", maxBufferSize,
		)

		return buf.Bytes()[:maxBufferSize], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
