// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config discovers and decodes engine configuration files.
//
// An engines directory holds one sub-directory per engine. Each sub-directory contains
// one configuration file, looked up in this order: config.json, config.yaml, config.yml,
// config.toml and engine.hcl. The engine executable defaults to a file named "engine"
// next to the configuration.
//
// All file access goes through FsFactory so tests can swap in an in-memory filesystem.
package config
