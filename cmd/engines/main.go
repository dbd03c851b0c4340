// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the engines command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/engines"
	"github.com/matt-FFFFFF/engines/cmd/engines/cmdstate"
	"github.com/matt-FFFFFF/engines/cmd/engines/commands"
	"github.com/matt-FFFFFF/engines/cmd/engines/list"
	"github.com/matt-FFFFFF/engines/cmd/engines/schema"
	"github.com/matt-FFFFFF/engines/cmd/engines/search"
	"github.com/matt-FFFFFF/engines/cmd/engines/shell"
	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"github.com/matt-FFFFFF/engines/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// newRootCmd returns the root command for the CLI.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			list.NewCmd(),
			commands.NewCmd(),
			search.NewCmd(),
			shell.NewCmd(),
			schema.NewCmd(),
		},
		Flags:     cmdstate.GlobalFlags(),
		Before:    cmdstate.Before,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "engines",
		Description: `Engines runs searches through external search engine executables.
Each engine lives in its own directory with a configuration file naming the
commands it offers. A command is an argument template holding $query, which is
replaced by the search query before the engine executable is started.`,
		Usage:     "engines search google web golang generics",
		Version:   fmt.Sprintf("%s (commit: %s)", engines.Version, engines.Commit),
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel)

	done := make(chan error, 1)

	go func() {
		done <- newRootCmd().Run(ctx, os.Args)
	}()

	// A running engine is never killed, a second signal abandons it.
	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
	}

	if ctx.Err() != nil {
		ctxlog.Error(ctx, "command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err.Error())
		os.Exit(1)
	}
}
