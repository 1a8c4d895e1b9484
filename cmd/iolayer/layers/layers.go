// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package layers contains the command that lists the available layers.
package layers

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/cmdstate"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/urfave/cli/v3"
)

// LayersCmd lists the registered layers and what each of them can do.
var LayersCmd = &cli.Command{
	Name:   "layers",
	Usage:  "List the available layers",
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	reg := cmdstate.Config(ctx).Registry

	fmt.Fprintf(cmd.Root().Writer, "Available layers:\n\n") //nolint:errcheck

	for _, name := range reg.Names() {
		l, _ := reg.Lookup(name)
		fmt.Fprintf(cmd.Root().Writer, "- %s (%s)\n", name, capabilities(l)) //nolint:errcheck
	}

	return nil
}

func capabilities(l layer.Layer) string {
	var caps []string

	if _, ok := l.(layer.Opener); ok {
		caps = append(caps, "open")
	}

	if _, ok := l.(layer.Pusher); ok {
		caps = append(caps, "push")
	}

	return strings.Join(caps, ", ")
}
