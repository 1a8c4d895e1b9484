// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tee contains the command that copies standard input to standard output and files.
package tee

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/cmdstate"
	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/matt-FFFFFF/iolayer/internal/pipeline"
	teelayer "github.com/matt-FFFFFF/iolayer/internal/tee"
	"github.com/urfave/cli/v3"
)

const (
	appendFlag = "append"
	layersFlag = "layers"
	cliExitStr = ""
)

// TeeCmd copies standard input to standard output, mirroring it to every file argument.
var TeeCmd = &cli.Command{
	Name:      "tee",
	Usage:     "Copy standard input to standard output and files",
	ArgsUsage: "[FILE]...",
	Description: `Copy standard input to standard output, mirroring every write to each FILE.
A FILE may carry its own mode prefix, e.g. ">> build.log" appends and "> build.log" truncates.
A FILE without a prefix is truncated unless --append is given.
Failures writing a FILE are logged and do not stop the copy to standard output.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        appendFlag,
			Aliases:     []string{"a"},
			Usage:       "Append to FILEs without a mode prefix instead of truncating them",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name:    layersFlag,
			Aliases: []string{"l"},
			Usage: "Layers pushed onto standard output below the tee, " +
				`innermost first, e.g. "flock" or "flock(non-blocking)"`,
			OnlyOnce: true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	def, err := definition(cmd.Args().Slice(), cmd.Bool(appendFlag), cmd.String(layersFlag))
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	p, err := pipeline.Build(ctx, cmdstate.Config(ctx), def)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	n, err := p.Run(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("copy failed after %d bytes: %s", n, err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	logger.Debug("tee completed", "bytes", n, "files", len(def.Outputs[0].Tee))

	return nil
}

// definition builds the single output pipeline of the tee command.
func definition(files []string, appendMode bool, layers string) (*pipeline.Definition, error) {
	fallback := layer.ModeWrite
	if appendMode {
		fallback = layer.ModeAppend
	}

	out := pipeline.Output{Path: pipeline.StdioPath}

	names, err := layer.ParseSpecs(layers)
	if err != nil {
		return nil, err
	}

	for _, n := range names {
		out.Layers = append(out.Layers, pipeline.LayerEntry{Name: n.Name, Arg: n.Arg})
	}

	for _, f := range files {
		mode, path, err := teelayer.ParseDefault(f, fallback)
		if err != nil {
			return nil, err
		}

		out.Tee = append(out.Tee, mode.String()+" "+path)
	}

	return &pipeline.Definition{
		Name:    "tee",
		Input:   pipeline.StdioPath,
		Outputs: []pipeline.Output{out},
	}, nil
}
