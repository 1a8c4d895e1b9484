// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tee

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/iolayer/cmd/iolayer/cmdstate"
	"github.com/matt-FFFFFF/iolayer/internal/alllayers"
	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/matt-FFFFFF/iolayer/internal/pipeline"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestDefinition(t *testing.T) {
	def, err := definition([]string{"a.log", ">> b.log", "> c.log"}, true, "flock(non-blocking)")
	require.NoError(t, err)

	require.Len(t, def.Outputs, 1)
	out := def.Outputs[0]
	assert.Equal(t, pipeline.StdioPath, def.Input)
	assert.Equal(t, pipeline.StdioPath, out.Path)
	assert.Equal(t, []pipeline.LayerEntry{{Name: "flock", Arg: "non-blocking"}}, out.Layers)
	assert.Equal(t, []string{">> a.log", ">> b.log", "> c.log"}, out.Tee)

	def, err = definition([]string{"a.log"}, false, "")
	require.NoError(t, err)
	assert.Empty(t, def.Outputs[0].Layers)
	assert.Equal(t, []string{"> a.log"}, def.Outputs[0].Tee)
}

func TestDefinition_Errors(t *testing.T) {
	_, err := definition([]string{"+< a.log"}, false, "")
	require.ErrorIs(t, err, layer.ErrConfiguration)

	_, err = definition(nil, false, "flock(")
	require.ErrorIs(t, err, layer.ErrConfiguration)
}

func TestTeeCmd(t *testing.T) {
	dir := t.TempDir()
	truncated := filepath.Join(dir, "truncated.log")
	appended := filepath.Join(dir, "appended.log")

	require.NoError(t, os.WriteFile(truncated, []byte("old\n"), 0o600))
	require.NoError(t, os.WriteFile(appended, []byte("old\n"), 0o600))

	var stdout bytes.Buffer

	stubs := gostub.Stub(&pipeline.Stdin, strings.NewReader("hello\n"))
	stubs.Stub(&pipeline.Stdout, &stdout)

	defer stubs.Reset()

	ctx := ctxlog.New(context.Background(), ctxlog.DiscardLogger)
	ctx = cmdstate.WithConfig(ctx, alllayers.Config())

	root := &cli.Command{
		Name:           "iolayer",
		Commands:       []*cli.Command{TeeCmd},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := root.Run(ctx, []string{"iolayer", "tee", truncated, ">> " + appended})
	require.NoError(t, err)

	assert.Equal(t, "hello\n", stdout.String())

	got, err := os.ReadFile(truncated)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	got, err = os.ReadFile(appended)
	require.NoError(t, err)
	assert.Equal(t, "old\nhello\n", string(got))
}
