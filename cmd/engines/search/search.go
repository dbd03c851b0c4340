// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package search provides the search command, which runs one engine command.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/engines/cmd/engines/cmdstate"
	"github.com/urfave/cli/v3"
)

const minArgs = 3

// NewCmd returns the search command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run an engine command with a query",
		ArgsUsage: "ENGINE COMMAND QUERY...",
		Description: `Run COMMAND of ENGINE, replacing $query in its argument template with QUERY.
The query words are joined with single spaces and passed to the engine as one argument.
The engine's standard output is written unchanged.`,
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < minArgs {
		return cli.Exit("usage: engines search ENGINE COMMAND QUERY...", 1)
	}

	state, err := cmdstate.Load(ctx, cmd)
	if err != nil {
		return err
	}

	defer state.Close()

	reg := state.Registry

	out, err := reg.Search(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.Root().Writer, out)

	return err
}
