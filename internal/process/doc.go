// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package process is the boundary between the engines and the operating system.
// It starts an executable with an argument list, waits for it to exit and returns the
// captured standard output, standard error and exit code.
//
// Arguments are passed directly to the process, no shell is involved.
package process
