// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the command that runs pipeline definitions.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/cmdstate"
	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/pipeline"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                    = "file"
	configTimeoutFlag           = "config-timeout"
	configTimeoutSecondsDefault = 30
	cliExitStr                  = ""
)

var (
	// ErrGetConfigFile is returned when the file cannot be read.
	ErrGetConfigFile = fmt.Errorf("failed to get definition file")
)

// RunCmd is the command that runs the pipelines defined in YAML or HCL files.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "Run one or more pipeline definitions",
	Description: `Run the pipelines defined in the specified YAML or HCL files.
Each pipeline copies its input to every output. Outputs are opened through
the listed layers and mirrored to their tee destinations.

Definition URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.
`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    fileFlag,
			Aliases: []string{"f"},
			Usage: "Specify the URL of the pipeline definition to run. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Specify multiple times to run multiple pipelines in order.",
			OnlyOnce: false,
		},
		&cli.IntFlag{
			Name:    configTimeoutFlag,
			Aliases: []string{"timeout"},
			Usage: "Set the maximum time in seconds to wait for a definition to be fetched. " +
				"Defaults to 30 seconds.",
			Value: configTimeoutSecondsDefault,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	urls := cmd.StringSlice(fileFlag)

	if len(urls) == 0 {
		logger.Error("Please specify at least one URL for the definition file using the --file or -f flag.")
		return cli.Exit(cliExitStr, 1)
	}

	cfg := cmdstate.Config(ctx)

	for i, u := range urls {
		if u == "" {
			logger.Error(fmt.Sprintf("The URL at index %d is empty. Please provide a valid URL.", i))
			return cli.Exit(cliExitStr, 1)
		}

		getCtx, getCancel := context.WithTimeout(ctx, time.Duration(cmd.Int(configTimeoutFlag))*time.Second)
		data, err := getURL(getCtx, u)

		getCancel()

		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		def, err := pipeline.Parse(data, definitionName(u))
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to parse definition %s: %s", u, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		p, err := pipeline.Build(ctx, cfg, def)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to build pipeline from %s: %s", u, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		n, err := p.Run(ctx)
		if err != nil {
			logger.Error(fmt.Sprintf("Pipeline %q failed after %d bytes: %s", p.Name, n, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info("pipeline completed", "name", p.Name, "bytes", n, "outputs", len(def.Outputs))
	}

	return nil
}

// definitionName returns the file name of a definition URL, used to select its format.
func definitionName(url string) string {
	url, _, _ = strings.Cut(url, goGetterRefSeparator)
	return filepath.Base(url)
}

// getURL fetches a pipeline definition with go-getter into a scratch directory
// and returns its bytes. Remote sources are fetched as the directory holding the
// definition, since go-getter cannot fetch a single file from them.
func getURL(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrGetConfigFile
	}

	tmpDir, err := os.MkdirTemp("", "iolayer-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	cli := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := cli.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return data, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
)

// splitFileNameFromGetterURL returns the go-getter source of the directory
// holding a definition, keeping any ?ref query, and the definition's file name.
// Both are empty when the URL has no "//" subdirectory naming a file.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref, fileName string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	if strings.Contains(parts[len(parts)-1], goGetterRefSeparator) {
		refSplit := strings.Split(parts[len(parts)-1], goGetterRefSeparator)
		if len(refSplit) > 1 {
			ref = strings.Join(refSplit[1:], "")
		}

		parts[len(parts)-1] = refSplit[0]
	}

	if filepath.Clean(parts[len(parts)-1]) == filepath.Dir(parts[len(parts)-1]) {
		return "", ""
	}

	fileName = filepath.Base(parts[len(parts)-1])
	parts[len(parts)-1] = filepath.Dir(parts[len(parts)-1])

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
