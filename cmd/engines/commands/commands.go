// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commands provides the commands command, which shows the commands of one engine.
package commands

import (
	"context"

	"github.com/matt-FFFFFF/engines/cmd/engines/cmdstate"
	"github.com/matt-FFFFFF/engines/cmd/engines/render"
	"github.com/urfave/cli/v3"
)

const engineArg = "engine"

// NewCmd returns the commands command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:      "commands",
		Usage:     "List the commands of an engine",
		ArgsUsage: "ENGINE",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: engineArg,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(engineArg)
	if name == "" {
		return cli.Exit("missing engine name, see 'engines list'", 1)
	}

	state, err := cmdstate.Load(ctx, cmd)
	if err != nil {
		return err
	}

	defer state.Close()

	reg := state.Registry

	e, err := reg.Lookup(name)
	if err != nil {
		return err
	}

	descriptions := e.ListCommands()

	rows := make([][]string, 0, len(descriptions))
	for _, c := range e.CommandNames() {
		rows = append(rows, []string{c, descriptions[c]})
	}

	return render.Table(cmd.Root().Writer, []string{"COMMAND", "DESCRIPTION"}, rows)
}
