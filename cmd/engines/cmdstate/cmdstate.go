// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the global flags shared by the engines subcommands
// and loads the engine registry they operate on.
package cmdstate

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/engines/internal/config"
	"github.com/matt-FFFFFF/engines/internal/ctxlog"
	"github.com/matt-FFFFFF/engines/internal/fetch"
	"github.com/matt-FFFFFF/engines/internal/registry"
	"github.com/urfave/cli/v3"
)

const (
	// EnginesDirFlag is the name of the global flag holding the engines source.
	EnginesDirFlag = "engines-dir"
	// EnginesDirEnvVar is the environment variable read when the flag is not set.
	EnginesDirEnvVar = "ENGINES_DIR"
	// DefaultEnginesDir is used when neither the flag nor the environment variable is set.
	DefaultEnginesDir = "./engines"
	// FetchTimeoutFlag is the name of the global flag bounding remote fetches, in seconds.
	FetchTimeoutFlag        = "fetch-timeout"
	fetchTimeoutSecsDefault = 60
	// LogFormatFlag is the name of the global flag selecting the log format.
	LogFormatFlag = "log-format"
	// LogFormatEnvVar is the environment variable read when the log format flag is not set.
	LogFormatEnvVar = "ENGINES_LOG_FORMAT"
)

// ErrNoEngines is returned when the engines source holds no loadable engine.
var ErrNoEngines = errors.New("no engines found")

// GlobalFlags returns the flags of the root command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    EnginesDirFlag,
			Aliases: []string{"d"},
			Usage: "Directory holding one sub-directory per engine. " +
				"Supports Hashicorp's go-getter syntax for fetching the tree from remote sources.",
			Value:     DefaultEnginesDir,
			Sources:   cli.EnvVars(EnginesDirEnvVar),
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:  FetchTimeoutFlag,
			Usage: "Maximum time in seconds to wait for a remote engines source.",
			Value: fetchTimeoutSecsDefault,
		},
		&cli.StringFlag{
			Name:    LogFormatFlag,
			Usage:   "Log format written to stderr, 'pretty' or 'json'.",
			Value:   ctxlog.FormatPretty,
			Sources: cli.EnvVars(LogFormatEnvVar),
		},
	}
}

// Before installs the logger selected by the log format flag in the context.
func Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger, err := ctxlog.ForFormat(cmd.String(LogFormatFlag))
	if err != nil {
		return ctx, err
	}

	return ctxlog.New(ctx, logger), nil
}

// fetchContext bounds ctx by the fetch timeout flag. A timeout of zero or less means no bound.
func fetchContext(ctx context.Context, cmd *cli.Command) (context.Context, context.CancelFunc) {
	if secs := cmd.Int(FetchTimeoutFlag); secs > 0 {
		return context.WithTimeout(ctx, time.Duration(secs)*time.Second)
	}

	return ctx, func() {}
}

// State is the loaded engines source shared by the subcommands.
type State struct {
	// Registry holds the engines that loaded.
	Registry *registry.Registry
	// Dir is the local engines directory, possibly a fetched copy.
	Dir     string
	cleanup func()
}

// Close releases any fetched copy of the engines source.
func (s *State) Close() {
	if s != nil && s.cleanup != nil {
		s.cleanup()
	}
}

// Load resolves the engines source of cmd and loads its engines.
// Engines that fail to load are logged and skipped. The caller must Close the returned State.
func Load(ctx context.Context, cmd *cli.Command) (*State, error) {
	src := cmd.String(EnginesDirFlag)
	if src == "" {
		src = DefaultEnginesDir
	}

	fetchCtx, cancel := fetchContext(ctx, cmd)
	defer cancel()

	dir, cleanup, err := fetch.Dir(fetchCtx, src)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Load(ctx, dir)
	if errors.Is(err, config.ErrReadDir) {
		cleanup()
		return nil, err
	}

	if err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				ctxlog.Warn(ctx, "skipping engine", "error", e.Error())
			}
		} else {
			ctxlog.Warn(ctx, "skipping engines", "error", err.Error())
		}
	}

	if reg.Len() == 0 {
		cleanup()
		return nil, errors.Join(ErrNoEngines, err)
	}

	ctxlog.Debug(ctx, "engines ready", "source", src, "dir", dir, "engines", reg.Names())

	return &State{
		Registry: reg,
		Dir:      dir,
		cleanup:  cleanup,
	}, nil
}
