// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Placeholder is the token in an argument template that is replaced by the query.
const Placeholder = "$query"

// Command is a named argument template that renders a query into process arguments.
// A Command can only be obtained through a constructor that validates it and cannot be changed afterwards.
type Command struct {
	name        string
	template    string
	description string
}

// NewCommand creates a command from its name, argument template and optional description.
// The template must contain Placeholder exactly once.
func NewCommand(name, template, description string) (*Command, error) {
	if err := validateCommand(name, template); err != nil {
		return nil, err
	}

	return &Command{
		name:        name,
		template:    template,
		description: description,
	}, nil
}

// NewCommandFromDocument creates a command from a decoded command document.
// It applies the same validation as NewCommand.
func NewCommandFromDocument(doc CommandDocument) (*Command, error) {
	return NewCommand(doc.Name, doc.Args, doc.Description)
}

// ParseCommand decodes a JSON or YAML command document and validates it.
func ParseCommand(data []byte) (*Command, error) {
	var doc CommandDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, configError("failed to decode command document: %w", err)
	}

	cmd, err := NewCommandFromDocument(doc)
	if err != nil {
		return nil, configError("command %q: %w", doc.Name, err)
	}

	return cmd, nil
}

// validateCommand is the single source of truth for command validity.
func validateCommand(name, template string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: command name must not be empty", ErrInvalidName)
	}

	if n := strings.Count(template, Placeholder); n != 1 {
		return fmt.Errorf("%w: found %d occurrences in %q", ErrInvalidTemplate, n, template)
	}

	return nil
}

// Name returns the name of the command.
func (c *Command) Name() string {
	return c.name
}

// Description returns the description of the command, or an empty string.
func (c *Command) Description() string {
	return c.description
}

// Render substitutes query into the template and returns the process arguments.
// The template is split on whitespace first and the query is inserted literally into the
// argument holding the placeholder, so a query with spaces stays a single argument.
func (c *Command) Render(query string) []string {
	args := strings.Fields(c.template)
	for i, arg := range args {
		if strings.Contains(arg, Placeholder) {
			args[i] = strings.Replace(arg, Placeholder, query, 1)
			break
		}
	}

	return args
}

// String implements fmt.Stringer.
func (c *Command) String() string {
	return c.name
}
