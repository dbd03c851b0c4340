// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger built on log/slog.
//
// The logger travels in a context.Context, so every layer that receives a context can log
// without a logger parameter. The default is a pretty console handler writing to stderr.
// The level is read once from the ENGINES_LOG_LEVEL environment variable and defaults to WARN.
package ctxlog
