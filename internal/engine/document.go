// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

// CommandDocument is the plain decoded form of a command in a configuration file.
type CommandDocument struct {
	// Name is the name of the command, unique within the engine.
	Name string `yaml:"name" toml:"name" docdesc:"Name of the command, unique within the engine"` //nolint:lll
	// Args is the argument template, it must contain $query exactly once.
	Args string `yaml:"args" toml:"args" docdesc:"Argument template passed to the engine executable, must contain $query exactly once"` //nolint:lll
	// Description is an optional human readable description.
	Description string `yaml:"description,omitempty" toml:"description,omitempty" docdesc:"Human readable description of the command"` //nolint:lll
}

// EngineDocument is the plain decoded form of an engine configuration file.
type EngineDocument struct {
	// Name is the name of the engine.
	Name string `yaml:"name" toml:"name" docdesc:"Name of the engine"` //nolint:lll
	// ExecutablePath is the executable invoked for every command of the engine.
	ExecutablePath string `yaml:"executable_path,omitempty" toml:"executable_path,omitempty" docdesc:"Executable invoked for every command, relative to the engine directory. Defaults to 'engine'"` //nolint:lll
	// Description is an optional human readable description.
	Description string `yaml:"description,omitempty" toml:"description,omitempty" docdesc:"Human readable description of the engine"` //nolint:lll
	// Commands are the commands of the engine, in file order.
	Commands []CommandDocument `yaml:"commands,omitempty" toml:"commands,omitempty" docdesc:"Commands offered by the engine"` //nolint:lll
}
