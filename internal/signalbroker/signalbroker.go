// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns termination signals into cancellation of a running copy.
// The broker channel receives SIGINT, SIGTERM and SIGQUIT unless other signals are given.
//
// Watch cancels the copy context on the first signal so every open stream is
// flushed and its layers popped. A second signal of the same type exits at once.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New returns the channel the broker delivers signals on. It holds two
// signals so a repeated signal is not dropped while streams are closing.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	if len(sigs) == 0 {
		sigs = termSignals
	}

	ch := make(chan os.Signal, 2) //nolint:mnd

	ctxlog.Debug(ctx, "signalbroker", "detail", "relaying signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop stops relaying signals to ch and closes it, which ends Watch.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
	close(ch)
}
