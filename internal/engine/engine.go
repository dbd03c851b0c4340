// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"github.com/matt-FFFFFF/engines/internal/process"
)

// Spawner starts an executable with an argument list and waits for it to exit.
// A nil Output means the executable could not be started.
type Spawner interface {
	Spawn(ctx context.Context, path string, args []string) (*process.Output, error)
}

var _ Spawner = (*process.OSSpawner)(nil)

// Engine is a named set of commands bound to one executable.
//
// Engine does no locking. All AddCommand and NewCommand calls must happen before the
// engine is shared between goroutines, after that Execute and ListCommands are safe
// to call concurrently.
type Engine struct {
	name           string
	executablePath string
	description    string
	commands       map[string]*Command
	spawner        Spawner
}

// Option configures an Engine.
type Option func(*Engine)

// WithDescription sets the description of the engine.
func WithDescription(description string) Option {
	return func(e *Engine) {
		e.description = description
	}
}

// WithCommands seeds the engine with commands.
// If two commands share a name the last one wins. Nil commands are ignored.
func WithCommands(commands ...*Command) Option {
	return func(e *Engine) {
		for _, cmd := range commands {
			if cmd == nil {
				continue
			}

			e.commands[cmd.name] = cmd
		}
	}
}

// WithSpawner replaces the process spawner, the default starts operating system processes.
func WithSpawner(s Spawner) Option {
	return func(e *Engine) {
		if s != nil {
			e.spawner = s
		}
	}
}

// New creates an engine bound to executablePath.
func New(name, executablePath string, opts ...Option) *Engine {
	e := &Engine{
		name:           name,
		executablePath: executablePath,
		commands:       make(map[string]*Command),
		spawner:        process.NewOSSpawner(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// FromDocument creates an engine from a decoded engine document.
// Every command document is validated, the first failure is returned wrapped in
// ErrConfigurationInvalid and no engine is returned.
// The document is applied after opts: its description replaces one set by WithDescription
// and its commands replace commands of the same name seeded by WithCommands.
func FromDocument(doc EngineDocument, opts ...Option) (*Engine, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, configError("%w: engine name must not be empty", ErrInvalidName)
	}

	if doc.ExecutablePath == "" {
		return nil, configError("engine %q: %w", doc.Name, ErrMissingExecutable)
	}

	cmds := make([]*Command, 0, len(doc.Commands))
	seen := make(map[string]struct{}, len(doc.Commands))

	for i, cd := range doc.Commands {
		cmd, err := NewCommandFromDocument(cd)
		if err != nil {
			return nil, configError("engine %q: command %d (%q): %w", doc.Name, i, cd.Name, err)
		}

		if _, dup := seen[cmd.name]; dup {
			return nil, configError("engine %q: %w: %s", doc.Name, ErrDuplicateCommand, cmd.name)
		}

		seen[cmd.name] = struct{}{}
		cmds = append(cmds, cmd)
	}

	opts = append(slices.Clone(opts), WithDescription(doc.Description), WithCommands(cmds...))

	return New(doc.Name, doc.ExecutablePath, opts...), nil
}

// Decode decodes a JSON or YAML engine document and creates the engine from it.
func Decode(data []byte, opts ...Option) (*Engine, error) {
	var doc EngineDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, configError("failed to decode engine document: %w", err)
	}

	return FromDocument(doc, opts...)
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// Description returns the description of the engine, or an empty string.
func (e *Engine) Description() string {
	return e.description
}

// ExecutablePath returns the executable the engine runs.
func (e *Engine) ExecutablePath() string {
	return e.executablePath
}

// AddCommand registers cmd. It fails with ErrDuplicateCommand if the name is taken,
// in which case the registered command is left unchanged.
func (e *Engine) AddCommand(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidName)
	}

	if _, exists := e.commands[cmd.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.name)
	}

	e.commands[cmd.name] = cmd

	return nil
}

// NewCommand creates a command and registers it.
func (e *Engine) NewCommand(name, template, description string) error {
	cmd, err := NewCommand(name, template, description)
	if err != nil {
		return err
	}

	return e.AddCommand(cmd)
}

// ListCommands returns a snapshot of the command names and their descriptions.
func (e *Engine) ListCommands() map[string]string {
	list := make(map[string]string, len(e.commands))
	for name, cmd := range e.commands {
		list[name] = cmd.description
	}

	return list
}

// CommandNames returns the sorted names of the registered commands.
func (e *Engine) CommandNames() []string {
	return slices.Sorted(maps.Keys(e.commands))
}

// Execute renders the named command with query, runs the engine executable with the result
// and returns its standard output.
// The call blocks until the executable exits, the context is not used to stop it.
func (e *Engine) Execute(ctx context.Context, commandName, query string) (string, error) {
	cmd, ok := e.commands[commandName]
	if !ok {
		return "", fmt.Errorf("%w: %q in engine %q", ErrUnknownCommand, commandName, e.name)
	}

	args := cmd.Render(query)

	logger := ctxlog.Logger(ctx).With(
		"engine", e.name,
		"command", commandName,
		"invocation", uuid.New().String()[:8],
	)
	logger.Debug("executing command", "path", e.executablePath, "args", args)

	out, err := e.spawner.Spawn(ctx, e.executablePath, args)
	if out == nil {
		if err == nil {
			err = process.ErrCouldNotStartProcess
		}

		logger.Debug("command could not be launched", "error", err)

		return "", &ExecutionError{
			Engine:   e.name,
			Command:  commandName,
			Path:     e.executablePath,
			Args:     args,
			ExitCode: -1,
			Err:      err,
		}
	}

	if err != nil || out.ExitCode != 0 {
		logger.Debug("command failed", "exitCode", out.ExitCode, "error", err)

		return "", &ExecutionError{
			Engine:   e.name,
			Command:  commandName,
			Path:     e.executablePath,
			Args:     args,
			Started:  true,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}

	logger.Debug("command finished", "stdoutBytes", len(out.Stdout))

	return string(out.Stdout), nil
}

// String implements fmt.Stringer.
func (e *Engine) String() string {
	return e.name
}
