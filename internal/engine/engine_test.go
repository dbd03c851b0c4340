// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"github.com/matt-FFFFFF/engines/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain is used to run the goleak verification before and after tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSpawner records calls and returns canned results.
type fakeSpawner struct {
	calls []fakeCall
	out   *process.Output
	err   error
}

type fakeCall struct {
	path string
	args []string
}

func (f *fakeSpawner) Spawn(_ context.Context, path string, args []string) (*process.Output, error) {
	f.calls = append(f.calls, fakeCall{path: path, args: args})
	return f.out, f.err
}

func mustCommand(t *testing.T, name, template, description string) *Command {
	t.Helper()

	cmd, err := NewCommand(name, template, description)
	require.NoError(t, err)

	return cmd
}

// writeScript writes an executable shell script to a temporary directory and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping test that needs /bin/sh on windows")
	}

	path := filepath.Join(t.TempDir(), "engine")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

func TestNew(t *testing.T) {
	e := New("google", "./engines/google_engine", WithDescription("google search engine"))
	assert.Equal(t, "google", e.Name())
	assert.Equal(t, "google search engine", e.Description())
	assert.Equal(t, "./engines/google_engine", e.ExecutablePath())
	assert.Empty(t, e.ListCommands())
	assert.Equal(t, "google", e.String())
}

func TestNew_SeededCommands(t *testing.T) {
	e := New("engine", "path", WithCommands(
		mustCommand(t, "search", "$query", ""),
		mustCommand(t, "upload", "$query", "description"),
	))

	commands := e.ListCommands()
	require.Len(t, commands, 2)

	desc, ok := commands["search"]
	require.True(t, ok)
	assert.Empty(t, desc)
	assert.Equal(t, "description", commands["upload"])
}

func TestNew_SeededDuplicatesLastWins(t *testing.T) {
	spawner := &fakeSpawner{out: &process.Output{}}
	e := New("engine", "path",
		WithSpawner(spawner),
		WithCommands(
			mustCommand(t, "search", "-first $query", "first"),
			nil,
			mustCommand(t, "search", "-second $query", "second"),
		),
	)

	assert.Equal(t, map[string]string{"search": "second"}, e.ListCommands())

	_, err := e.Execute(context.Background(), "search", "q")
	require.NoError(t, err)
	require.Len(t, spawner.calls, 1)
	assert.Equal(t, []string{"-second", "q"}, spawner.calls[0].args)
}

func TestAddCommand(t *testing.T) {
	e := New("engine", "path")
	require.NoError(t, e.AddCommand(mustCommand(t, "search", "-s $query", "original")))

	err := e.AddCommand(mustCommand(t, "search", "-other $query", "replacement"))
	require.ErrorIs(t, err, ErrDuplicateCommand)
	assert.Equal(t, map[string]string{"search": "original"}, e.ListCommands())

	require.ErrorIs(t, e.AddCommand(nil), ErrInvalidName)
}

func TestAddCommand_OriginalStillExecutes(t *testing.T) {
	spawner := &fakeSpawner{out: &process.Output{}}
	e := New("engine", "/bin/engine", WithSpawner(spawner))
	require.NoError(t, e.NewCommand("search", "-s $query", ""))
	require.Error(t, e.NewCommand("search", "-x $query", ""))

	_, err := e.Execute(context.Background(), "search", "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"-s", "q"}, spawner.calls[0].args)
}

func TestEngineNewCommand(t *testing.T) {
	e := New("engine", "path")

	require.NoError(t, e.NewCommand("search", "-search=$query", ""))
	require.ErrorIs(t, e.NewCommand("bad", "-search=query", ""), ErrInvalidTemplate)
	require.ErrorIs(t, e.NewCommand("", "$query", ""), ErrInvalidName)
	require.ErrorIs(t, e.NewCommand("search", "$query", ""), ErrDuplicateCommand)

	assert.Equal(t, []string{"search"}, e.CommandNames())
}

func TestListCommands_IsSnapshot(t *testing.T) {
	e := New("engine", "path")
	require.NoError(t, e.NewCommand("b", "$query", "bee"))
	require.NoError(t, e.NewCommand("a", "$query", ""))

	list := e.ListCommands()
	list["c"] = "injected"
	delete(list, "a")

	assert.Equal(t, map[string]string{"a": "", "b": "bee"}, e.ListCommands())
	assert.Equal(t, []string{"a", "b"}, e.CommandNames())
}

func TestExecute_UnknownCommandDoesNotSpawn(t *testing.T) {
	spawner := &fakeSpawner{out: &process.Output{Stdout: []byte("nope")}}
	e := New("engine", "path", WithSpawner(spawner))
	require.NoError(t, e.NewCommand("user", "-u $query", ""))

	out, err := e.Execute(context.Background(), "search", "user123")
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Empty(t, out)
	assert.Empty(t, spawner.calls)
}

func TestExecute_PassesRenderedArgs(t *testing.T) {
	spawner := &fakeSpawner{out: &process.Output{Stdout: []byte("result\n")}}
	e := New("engine", "/opt/engine", WithSpawner(spawner))
	require.NoError(t, e.NewCommand("user", "--type user -searchuser=$query", ""))

	out, err := e.Execute(context.Background(), "user", "john smith")
	require.NoError(t, err)
	assert.Equal(t, "result\n", out)

	require.Len(t, spawner.calls, 1)
	assert.Equal(t, "/opt/engine", spawner.calls[0].path)
	assert.Equal(t, []string{"--type", "user", "-searchuser=john smith"}, spawner.calls[0].args)
}

func TestExecute_Failures(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		out        *process.Output
		err        error
		wantStage  error
		wantCause  error
		wantExit   int
		wantStderr string
	}{
		{
			name:      "launch failure",
			err:       errors.Join(process.ErrCouldNotStartProcess, cause),
			wantStage: ErrLaunch,
			wantCause: process.ErrCouldNotStartProcess,
			wantExit:  -1,
		},
		{
			name:      "nil output without error is a launch failure",
			wantStage: ErrLaunch,
			wantCause: process.ErrCouldNotStartProcess,
			wantExit:  -1,
		},
		{
			name:       "non-zero exit",
			out:        &process.Output{ExitCode: 2, Stdout: []byte("partial"), Stderr: []byte("bad query\n")},
			wantStage:  ErrNonZeroExit,
			wantExit:   2,
			wantStderr: "bad query\n",
		},
		{
			name:       "wait failure has no exit status",
			out:        &process.Output{ExitCode: -1, Stderr: []byte("half")},
			err:        errors.Join(process.ErrWaitProcess, cause),
			wantStage:  ErrOutputCapture,
			wantCause:  process.ErrWaitProcess,
			wantExit:   -1,
			wantStderr: "half",
		},
		{
			name:      "output capture failure",
			out:       &process.Output{ExitCode: 0, Stdout: []byte("trunc")},
			err:       process.ErrBufferOverflow,
			wantStage: ErrOutputCapture,
			wantCause: process.ErrBufferOverflow,
			wantExit:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New("engine", "/opt/engine", WithSpawner(&fakeSpawner{out: tt.out, err: tt.err}))
			require.NoError(t, e.NewCommand("user", "-u $query", ""))

			out, err := e.Execute(context.Background(), "user", "q")
			assert.Empty(t, out)
			require.ErrorIs(t, err, ErrExecutionFailed)
			require.ErrorIs(t, err, tt.wantStage)

			if tt.wantCause != nil {
				require.ErrorIs(t, err, tt.wantCause)
			}

			var execErr *ExecutionError

			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, "engine", execErr.Engine)
			assert.Equal(t, "user", execErr.Command)
			assert.Equal(t, "/opt/engine", execErr.Path)
			assert.Equal(t, []string{"-u", "q"}, execErr.Args)
			assert.Equal(t, tt.wantExit, execErr.ExitCode)
			assert.Equal(t, tt.wantStderr, string(execErr.Stderr))
			assert.Contains(t, err.Error(), tt.wantStage.Error())

			if tt.wantStage != ErrNonZeroExit {
				assert.NotErrorIs(t, err, ErrNonZeroExit)
			}
		})
	}
}

func TestExecutionError_QuotesFirstStderrLine(t *testing.T) {
	long := strings.Repeat("x", 10*maxStderrInError)

	tests := []struct {
		name    string
		stderr  string
		want    string
		exclude string
	}{
		{
			name:   "single line",
			stderr: "bad query\n",
			want:   ": bad query",
		},
		{
			name:    "many lines",
			stderr:  "first problem\nsecond problem\n",
			want:    ": first problem ...",
			exclude: "second problem",
		},
		{
			name:   "long line",
			stderr: long,
			want:   ": " + long[:maxStderrInError] + " ...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ExecutionError{
				Engine:   "engine",
				Command:  "user",
				Path:     "/opt/engine",
				Started:  true,
				ExitCode: 1,
				Stderr:   []byte(tt.stderr),
			}

			msg := err.Error()
			assert.True(t, strings.HasSuffix(msg, tt.want), msg)
			assert.Less(t, len(msg), 2*maxStderrInError)
			assert.Equal(t, tt.stderr, string(err.Stderr))

			if tt.exclude != "" {
				assert.NotContains(t, msg, tt.exclude)
			}
		})
	}
}

func TestExecute_Script(t *testing.T) {
	path := writeScript(t, `echo "test output"`)

	e := New("Engine", path)
	require.NoError(t, e.NewCommand("search", "-search=$query", ""))

	ctx := ctxlog.New(context.Background(), ctxlog.DefaultLogger)

	out, err := e.Execute(ctx, "search", "test123")
	require.NoError(t, err)
	assert.Equal(t, "test output\n", out)

	_, err = e.Execute(ctx, "other", "test123")
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestExecute_ScriptReceivesArguments(t *testing.T) {
	path := writeScript(t, `for a in "$@"; do printf '[%s]' "$a"; done`)

	e := New("Engine", path)
	require.NoError(t, e.NewCommand("search", "-s $query --exact", ""))

	out, err := e.Execute(context.Background(), "search", "two words; $(id)")
	require.NoError(t, err)
	assert.Equal(t, "[-s][two words; $(id)][--exact]", out)
}

func TestExecute_ScriptNonZeroExit(t *testing.T) {
	path := writeScript(t, `echo "no results for $2" >&2; exit 4`)

	e := New("Engine", path)
	require.NoError(t, e.NewCommand("search", "-s $query", ""))

	_, err := e.Execute(context.Background(), "search", "alice")
	require.ErrorIs(t, err, ErrExecutionFailed)
	require.ErrorIs(t, err, ErrNonZeroExit)

	var execErr *ExecutionError

	require.ErrorAs(t, err, &execErr)
	assert.True(t, execErr.Started)
	assert.Equal(t, 4, execErr.ExitCode)
	assert.Equal(t, "no results for alice\n", string(execErr.Stderr))
	assert.Contains(t, err.Error(), "no results for alice")
}

func TestExecute_MissingExecutable(t *testing.T) {
	e := New("Engine", filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, e.NewCommand("search", "-s $query", ""))

	_, err := e.Execute(context.Background(), "search", "alice")
	require.ErrorIs(t, err, ErrExecutionFailed)
	require.ErrorIs(t, err, ErrLaunch)
	require.ErrorIs(t, err, process.ErrCouldNotStartProcess)
	assert.NotErrorIs(t, err, ErrNonZeroExit)

	var execErr *ExecutionError

	require.ErrorAs(t, err, &execErr)
	assert.False(t, execErr.Started)
}
