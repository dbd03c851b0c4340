// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/engines/internal/ctxlog"
)

// Watch reads sigCh until it is closed or ctx is done.
// The first signal of a kind is logged, the second one closes sigCh and calls cancel.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Warn(ctx, "second signal received, abandoning running engine", "signal", sig.String())
				close(sigCh)
				cancel()

				return
			}

			ctxlog.Warn(ctx, "signal received, waiting for running engine; repeat to abort", "signal", sig.String())

			seen[sig] = struct{}{}
		}
	}
}
