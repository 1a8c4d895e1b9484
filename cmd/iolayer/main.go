// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the iolayer command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/iolayer"
	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/cmdstate"
	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/layers"
	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/run"
	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/tee"
	"github.com/matt-FFFFFF/iolayer/internal/alllayers"
	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/diag"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/matt-FFFFFF/iolayer/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		layers.LayersCmd,
		run.RunCmd,
		tee.TeeCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "iolayer",
	Description: `iolayer copies a stream through a stack of I/O layers.
Outputs are opened with layer specifications such as "creat:tee" and
each tee layer mirrors every write to a secondary destination.
Failures of a secondary destination are reported as diagnostics and
never interrupt the primary stream.`,
	Usage:     "iolayer run -f pipeline.yaml",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", iolayer.Version, iolayer.Commit)

	cfg := alllayers.Config(
		layer.WithReporter(diag.NewLogReporter(ctxlog.Logger(ctx))),
	)

	ctx = cmdstate.WithConfig(ctx, cfg)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Debug("command completed successfully")
}
