// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker relays termination signals to the engines CLI.
// With no arguments New listens for SIGINT, SIGTERM, SIGQUIT and os.Interrupt.
//
// Watch turns the second signal of the same kind into a context cancellation,
// so a single Ctrl-C lets a running engine finish and a second one gives up on it.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/engines/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New returns a channel that receives the given signals, or the termination signals if none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signal broker listening", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop detaches the channel from signal delivery.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}
