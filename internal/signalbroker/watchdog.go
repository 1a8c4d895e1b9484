// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
)

// ForceExitCode is the exit code used when a second signal terminates the process.
const ForceExitCode = 130

// forceExit terminates the process. It is a variable so tests can replace it.
var forceExit = os.Exit

// Watch monitors the signal channel and handles signals.
// The first signal of a given type cancels the context, which lets open streams
// flush and close. The second signal of the same type terminates the process.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})
	for sig := range sigCh {
		if _, ok := sigMap[sig]; ok {
			ctxlog.Logger(ctx).Info("watchdog", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())
			forceExit(ForceExitCode)

			return
		}

		ctxlog.Logger(ctx).Info("watchdog", "detail", "received first signal of type, cancelling", "signal", sig.String())

		sigMap[sig] = struct{}{}

		cancel()
	}
}
