// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"

	"github.com/matt-FFFFFF/engines/internal/process"
)

type recordingSpawner struct {
	args [][]string
}

func (r *recordingSpawner) Spawn(_ context.Context, _ string, args []string) (*process.Output, error) {
	r.args = append(r.args, args)
	return &process.Output{}, nil
}
