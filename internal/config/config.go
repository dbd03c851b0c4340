// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"github.com/matt-FFFFFF/engines/internal/engine"
	"github.com/spf13/afero"
)

// DefaultExecutable is the executable name used when a document omits executable_path.
const DefaultExecutable = "engine"

var (
	// ErrNoConfigFile is returned when a directory holds none of the recognised configuration files.
	ErrNoConfigFile = errors.New("no engine configuration file found")
	// ErrDecode is returned when a configuration file cannot be decoded.
	ErrDecode = errors.New("failed to decode engine configuration")
	// ErrReadDir is returned when the engines directory cannot be listed.
	ErrReadDir = errors.New("failed to read engines directory")
	// ErrReadFile is returned when a configuration file cannot be read.
	ErrReadFile = errors.New("failed to read engine configuration")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// LoadDir loads every immediate sub-directory of root that holds a configuration file.
// Directories without one are skipped. Failures of individual engines are aggregated
// and returned together with the engines that did load.
func LoadDir(ctx context.Context, root string, opts ...engine.Option) ([]*engine.Engine, error) {
	fs := FsFactory()

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDir, root, err)
	}

	var (
		engines []*engine.Engine
		result  error
	)

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dir := filepath.Join(root, entry.Name())

		e, err := LoadEngine(ctx, dir, opts...)

		switch {
		case errors.Is(err, ErrNoConfigFile):
			ctxlog.Debug(ctx, "skipping directory without engine configuration", "dir", dir)
		case err != nil:
			result = multierror.Append(result, err)
		default:
			engines = append(engines, e)
		}
	}

	ctxlog.Debug(ctx, "loaded engines", "root", root, "count", len(engines))

	if result != nil {
		return engines, result
	}

	return engines, nil
}

// LoadEngine loads the engine configured in dir.
// The executable path defaults to dir/engine and relative paths resolve against dir.
func LoadEngine(ctx context.Context, dir string, opts ...engine.Option) (*engine.Engine, error) {
	fs := FsFactory()

	path, format, err := findConfigFile(fs, dir)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}

	doc, err := format.decode(data, path, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %w", engine.ErrConfigurationInvalid, ErrDecode, path, err)
	}

	doc.ExecutablePath = ResolveExecutable(dir, doc.ExecutablePath)

	e, err := engine.FromDocument(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.Debug(ctx, "loaded engine",
		"engine", e.Name(),
		"config", path,
		"executable", e.ExecutablePath(),
		"commands", len(e.ListCommands()),
	)

	return e, nil
}

// ResolveExecutable returns the executable path of an engine living in dir.
func ResolveExecutable(dir, path string) string {
	switch {
	case path == "":
		return filepath.Join(dir, DefaultExecutable)
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(dir, path)
	}
}

func findConfigFile(fs afero.Fs, dir string) (string, configFormat, error) {
	for _, f := range formats {
		path := filepath.Join(dir, f.filename)

		ok, err := afero.Exists(fs, path)
		if err != nil {
			return "", configFormat{}, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
		}

		if ok {
			return path, f, nil
		}
	}

	return "", configFormat{}, fmt.Errorf("%w in %s", ErrNoConfigFile, dir)
}
