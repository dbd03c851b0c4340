// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list provides the list command, which shows the available engines.
package list

import (
	"context"
	"strconv"

	"github.com/matt-FFFFFF/engines/cmd/engines/cmdstate"
	"github.com/matt-FFFFFF/engines/cmd/engines/render"
	"github.com/matt-FFFFFF/engines/internal/registry"
	"github.com/urfave/cli/v3"
)

const jsonFlag = "json"

// EngineSummary is the JSON form of one engine in the listing.
type EngineSummary struct {
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	ExecutablePath string            `json:"executable_path"`
	Commands       map[string]string `json:"commands"`
}

// NewCmd returns the list command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Aliases:     []string{"ls"},
		Usage:       "List the available engines",
		Description: "List the engines found in the engines directory with their description and number of commands.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  jsonFlag,
				Usage: "Output the engines and their commands as JSON",
			},
		},
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

	w := cmd.Root().Writer

	if cmd.Bool(jsonFlag) {
		return render.JSON(w, Summaries(reg))
	}

	rows := make([][]string, 0, reg.Len())
	for _, e := range reg.Engines() {
		rows = append(rows, []string{e.Name(), strconv.Itoa(len(e.ListCommands())), e.Description()})
	}

	return render.Table(w, []string{"ENGINE", "COMMANDS", "DESCRIPTION"}, rows)
}

// Summaries returns the engines of reg sorted by name.
func Summaries(reg *registry.Registry) []EngineSummary {
	summaries := make([]EngineSummary, 0, reg.Len())
	for _, e := range reg.Engines() {
		summaries = append(summaries, EngineSummary{
			Name:           e.Name(),
			Description:    e.Description(),
			ExecutablePath: e.ExecutablePath(),
			Commands:       e.ListCommands(),
		})
	}

	return summaries
}
