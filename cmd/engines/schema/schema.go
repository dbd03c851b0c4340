// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema provides the schema command for documenting the engine configuration file.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/engines/internal/engine"
	"github.com/matt-FFFFFF/engines/internal/schema"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag  = "format"
	title       = "Engine configuration"
	description = "Configuration of one search engine: its executable and the commands it offers."
)

// Example is the document written by the yaml format.
var Example = engine.EngineDocument{
	Name:           "facebook",
	ExecutablePath: "engine",
	Description:    "Search stuff on Facebook.",
	Commands: []engine.CommandDocument{
		{Name: "user", Args: "--type user -u $query", Description: "search a user"},
		{Name: "group", Args: "-g=$query"},
	},
}

// NewCmd returns the schema command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:        "schema",
		Usage:       "Display the engine configuration schema",
		Description: "Display the JSON Schema, a YAML example or a Markdown reference of the engine configuration file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    formatFlag,
				Aliases: []string{"f"},
				Usage:   "Output format: json, yaml, or markdown",
				Value:   "json",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	g := schema.NewGenerator()
	w := cmd.Root().Writer

	switch format := strings.ToLower(cmd.String(formatFlag)); format {
	case "json":
		return g.WriteJSONSchema(w, title, description, engine.EngineDocument{})
	case "yaml", "yml":
		return g.WriteYAMLExample(w, Example)
	case "markdown", "md":
		return g.WriteMarkdownDoc(w, title, engine.EngineDocument{})
	default:
		return cli.Exit(fmt.Sprintf("invalid format: %s. Valid formats: json, yaml, markdown", format), 1)
	}
}
