// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fetch materialises an engines tree from a go-getter source, such as
// a git repository, an HTTP archive or an S3 bucket, into a local directory.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/engines/internal/ctxlog"
)

var (
	// ErrGetSource is returned when the source cannot be fetched.
	ErrGetSource = errors.New("failed to get engines source")
	// ErrEmptySource is returned when no source is given.
	ErrEmptySource = errors.New("engines source is empty")
)

// Dir returns a local directory holding the contents of src and a cleanup func.
// An existing local directory is returned as is with a no-op cleanup.
// Anything else is fetched into a new temporary directory that cleanup removes.
func Dir(ctx context.Context, src string) (string, func(), error) {
	noop := func() {}

	if src == "" {
		return "", noop, ErrEmptySource
	}

	if fi, err := os.Stat(src); err == nil && fi.IsDir() {
		abs, err := filepath.Abs(src)
		if err != nil {
			return "", noop, errors.Join(ErrGetSource, err)
		}

		return abs, noop, nil
	}

	tmpDir, err := os.MkdirTemp("", "engines-getter-*")
	if err != nil {
		return "", noop, errors.Join(ErrGetSource, err)
	}

	cleanup := func() {
		os.RemoveAll(tmpDir) //nolint:errcheck
	}

	wd, err := os.Getwd()
	if err != nil {
		cleanup()
		return "", noop, errors.Join(ErrGetSource, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "engines"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
		Copy:    true,
	}

	ctxlog.Debug(ctx, "fetching engines", "src", src, "dst", req.Dst)

	res, err := client.Get(ctx, req)
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: %s: %w", ErrGetSource, src, err)
	}

	return res.Dst, cleanup, nil
}
