// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package engine provides search engines: named collections of commands bound to an external executable.
//
// A Command is an argument template holding the $query placeholder exactly once, for example
// "-u $query" or "-searchuser=$query". Executing a command replaces the placeholder with the
// query, passes the resulting arguments directly to the engine executable and returns what the
// executable wrote to standard output.
//
// Commands and engines can be created directly or from decoded configuration documents. Both
// paths share the same validation, so an invalid template is rejected the same way regardless of
// where it came from.
package engine
