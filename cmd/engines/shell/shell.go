// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shell provides an interactive prompt for running engine commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/matt-FFFFFF/engines/cmd/engines/cmdstate"
	"github.com/matt-FFFFFF/engines/cmd/engines/render"
	"github.com/matt-FFFFFF/engines/internal/config"
	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"github.com/matt-FFFFFF/engines/internal/registry"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const (
	prompt      = "engines> "
	historyFile = ".engines_history"
	helpText    = `Usage:
  ENGINE COMMAND QUERY...  run COMMAND of ENGINE with QUERY
  list                     list the engines
  commands ENGINE          list the commands of ENGINE
  eval EXPRESSION          evaluate an HCL expression as engine.hcl would
  help                     show this help
  exit, quit               leave the shell
`
)

var (
	// ErrQuit is returned by Exec when the line asks to leave the shell.
	ErrQuit = errors.New("quit")
	// ErrUsage is returned by Exec for lines that are not a valid shell command.
	ErrUsage = errors.New("invalid input, type 'help' for usage")
	// ErrEval is returned when an eval expression cannot be parsed or evaluated.
	ErrEval = errors.New("failed to evaluate expression")
)

var builtins = []string{"commands", "eval", "exit", "help", "list", "quit"}

// NewCmd returns the shell command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive prompt",
		Description: `Start an interactive prompt with history and tab completion of engine and command names.
Type 'help' at the prompt for the available commands.`,
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	state, err := cmdstate.Load(ctx, cmd)
	if err != nil {
		return err
	}

	defer state.Close()

	reg := state.Registry

	return Run(ctx, New(reg, cmd.Root().Writer, state.Dir))
}

// Shell executes prompt lines against a registry.
type Shell struct {
	reg *registry.Registry
	out io.Writer
	dir string
}

// New creates a Shell writing to out. HCL expressions given to eval see dir as engine_dir.
func New(reg *registry.Registry, out io.Writer, dir string) *Shell {
	return &Shell{
		reg: reg,
		out: out,
		dir: dir,
	}
}

// Run reads lines from the terminal until exit, Ctrl-C, Ctrl-D or ctx is done.
func Run(ctx context.Context, s *Shell) error {
	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.Complete)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f) //nolint:errcheck
		f.Close()           //nolint:errcheck
	}

	defer func() {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f) //nolint:errcheck
			f.Close()            //nolint:errcheck
		}
	}()

	fmt.Fprintln(s.out, "Type 'help' for usage, 'exit' or Ctrl+C to quit.") //nolint:errcheck

	for ctx.Err() == nil {
		input, err := line.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("error reading line: %w", err)
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		line.AppendHistory(input)

		err = s.Exec(ctx, input)
		if errors.Is(err, ErrQuit) {
			return nil
		}

		if err != nil {
			ctxlog.Error(ctx, "command failed", "error", err.Error())
		}
	}

	return ctx.Err()
}

// Exec runs one prompt line.
func (s *Shell) Exec(ctx context.Context, input string) error {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "exit", "quit":
		return ErrQuit
	case "help":
		_, err := io.WriteString(s.out, helpText)
		return err
	case "list":
		if len(fields) != 1 {
			return fmt.Errorf("%w: list takes no arguments", ErrUsage)
		}

		return s.list()
	case "commands":
		if len(fields) != 2 {
			return fmt.Errorf("%w: commands takes one engine name", ErrUsage)
		}

		return s.commands(fields[1])
	case "eval":
		if len(fields) == 1 {
			return fmt.Errorf("%w: eval needs an expression", ErrUsage)
		}

		_, expr, _ := strings.Cut(strings.TrimSpace(input), "eval")

		return s.eval(strings.TrimSpace(expr))
	}

	if len(fields) < 3 {
		return ErrUsage
	}

	out, err := s.reg.Search(ctx, fields[0], fields[1], strings.Join(fields[2:], " "))
	if err != nil {
		return err
	}

	_, err = io.WriteString(s.out, out)

	return err
}

// Complete returns the completions of a partial prompt line.
// The first word completes to builtins and engine names, the second to command names.
func (s *Shell) Complete(input string) []string {
	fields := strings.Fields(input)
	trailingSpace := strings.HasSuffix(input, " ")

	switch {
	case len(fields) == 0:
		return candidates("", s.firstWords(), "")
	case len(fields) == 1 && !trailingSpace:
		return candidates("", s.firstWords(), fields[0])
	case len(fields) == 1 && fields[0] == "commands",
		len(fields) == 2 && !trailingSpace && fields[0] == "commands":
		return candidates("commands ", s.reg.Names(), partial(fields, 1))
	case len(fields) == 1, len(fields) == 2 && !trailingSpace:
		e, err := s.reg.Lookup(fields[0])
		if err != nil {
			return nil
		}

		return candidates(fields[0]+" ", e.CommandNames(), partial(fields, 1))
	default:
		return nil
	}
}

func (s *Shell) firstWords() []string {
	return slices.Concat(builtins, s.reg.Names())
}

// candidates returns head+word for every word starting with prefix.
func candidates(head string, words []string, prefix string) []string {
	var out []string

	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, head+w+" ")
		}
	}

	return out
}

func (s *Shell) list() error {
	rows := make([][]string, 0, s.reg.Len())
	for _, e := range s.reg.Engines() {
		rows = append(rows, []string{e.Name(), e.Description()})
	}

	return render.Table(s.out, []string{"ENGINE", "DESCRIPTION"}, rows)
}

func (s *Shell) commands(name string) error {
	e, err := s.reg.Lookup(name)
	if err != nil {
		return err
	}

	descriptions := e.ListCommands()

	rows := make([][]string, 0, len(descriptions))
	for _, c := range e.CommandNames() {
		rows = append(rows, []string{c, descriptions[c]})
	}

	return render.Table(s.out, []string{"COMMAND", "DESCRIPTION"}, rows)
}

func (s *Shell) eval(src string) error {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "repl.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return fmt.Errorf("%w: %w", ErrEval, diags)
	}

	value, diags := expr.Value(config.EvalContext(s.dir))
	if diags.HasErrors() {
		return fmt.Errorf("%w: %w", ErrEval, diags)
	}

	b, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEval, err)
	}

	_, err = fmt.Fprintln(s.out, string(b))

	return err
}

func partial(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}

	return ""
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), historyFile)
	}

	return filepath.Join(home, historyFile)
}
