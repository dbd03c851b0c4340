// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/lonegunmanb/hclfuncs"
	"github.com/matt-FFFFFF/engines/internal/engine"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ErrUnknownKeys is returned when a TOML document holds keys that map to no field.
var ErrUnknownKeys = errors.New("unknown keys")

type configFormat struct {
	filename string
	decode   func(data []byte, filename, dir string) (engine.EngineDocument, error)
}

// formats is searched in order, the first file found wins.
var formats = []configFormat{
	{filename: "config.json", decode: decodeYAML},
	{filename: "config.yaml", decode: decodeYAML},
	{filename: "config.yml", decode: decodeYAML},
	{filename: "config.toml", decode: decodeTOML},
	{filename: "engine.hcl", decode: decodeHCL},
}

// Filenames returns the recognised configuration file names in lookup order.
func Filenames() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.filename
	}

	return names
}

// decodeYAML also handles JSON, which is a subset of YAML.
func decodeYAML(data []byte, _, _ string) (engine.EngineDocument, error) {
	var doc engine.EngineDocument
	err := yaml.Unmarshal(data, &doc)

	return doc, err
}

func decodeTOML(data []byte, _, _ string) (engine.EngineDocument, error) {
	var doc engine.EngineDocument

	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return doc, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return doc, fmt.Errorf("%w: %v", ErrUnknownKeys, undecoded)
	}

	return doc, nil
}

type hclEngine struct {
	Name           string       `hcl:"name"`
	ExecutablePath string       `hcl:"executable_path,optional"`
	Description    string       `hcl:"description,optional"`
	Commands       []hclCommand `hcl:"command,block"`
}

type hclCommand struct {
	Name        string `hcl:"name,label"`
	Args        string `hcl:"args"`
	Description string `hcl:"description,optional"`
}

func decodeHCL(data []byte, filename, dir string) (engine.EngineDocument, error) {
	var cfg hclEngine
	if err := hclsimple.Decode(filename, data, EvalContext(dir), &cfg); err != nil {
		return engine.EngineDocument{}, err
	}

	doc := engine.EngineDocument{
		Name:           cfg.Name,
		ExecutablePath: cfg.ExecutablePath,
		Description:    cfg.Description,
		Commands:       make([]engine.CommandDocument, 0, len(cfg.Commands)),
	}

	for _, c := range cfg.Commands {
		doc.Commands = append(doc.Commands, engine.CommandDocument{
			Name:        c.Name,
			Args:        c.Args,
			Description: c.Description,
		})
	}

	return doc, nil
}

// EvalContext returns the HCL evaluation context for an engine in dir.
// It exposes the engine_dir variable, the hclfuncs function library and env(name).
func EvalContext(dir string) *hcl.EvalContext {
	functions := make(map[string]function.Function)
	maps.Copy(functions, hclfuncs.Functions(dir))
	functions["env"] = envFunc

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"engine_dir": cty.StringVal(dir),
		},
		Functions: functions,
	}
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})
