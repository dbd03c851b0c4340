// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for terminal output.
// Color is disabled when NO_COLOR is set, forced by FORCE_COLOR, and otherwise
// enabled only when the destination is a terminal.
package color
