// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/iolayer/internal/alllayers"
	"github.com/matt-FFFFFF/iolayer/internal/diag"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/matt-FFFFFF/iolayer/internal/tee"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const yamlDefinition = `name: nightly
input: build.log
outputs:
  - path: archive.log
    mode: ">>"
    layers:
      - name: creat
    tee:
      - "> latest.log"
      - second.log
  - path: "-"
`

const hclDefinition = `name  = "nightly"
input = "build.log"

output "archive.log" {
  mode = ">>"
  layer "creat" {}
  tee = ["> ${env.IOLAYER_PIPELINE_DIR}/latest.log", lower("SECOND.log")]
}

output "-" {}
`

func newConfig(fs afero.Fs) *layer.Config {
	return alllayers.Config(layer.WithFS(fs), layer.WithReporter(&diag.Recorder{}))
}

func TestParseYAML(t *testing.T) {
	def, err := ParseYAML([]byte(yamlDefinition))
	require.NoError(t, err)

	assert.Equal(t, "nightly", def.Name)
	assert.Equal(t, "build.log", def.Input)
	require.Len(t, def.Outputs, 2)
	assert.Equal(t, ">>", def.Outputs[0].Mode)
	assert.Equal(t, []LayerEntry{{Name: "creat"}}, def.Outputs[0].Layers)
	assert.Equal(t, []string{"> latest.log", "second.log"}, def.Outputs[0].Tee)
	assert.Equal(t, StdioPath, def.Outputs[1].Path)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"invalid", "outputs: [", ErrInvalidYaml},
		{"no outputs", "name: x\n", ErrNoOutputs},
		{"no path", "outputs:\n  - mode: '>'\n", ErrMissingField},
		{"no layer name", "outputs:\n  - path: x\n    layers:\n      - arg: y\n", ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseHCL(t *testing.T) {
	t.Setenv("IOLAYER_PIPELINE_DIR", "logs")

	def, err := ParseHCL([]byte(hclDefinition), "pipeline.hcl")
	require.NoError(t, err)

	assert.Equal(t, "nightly", def.Name)
	require.Len(t, def.Outputs, 2)
	assert.Equal(t, "archive.log", def.Outputs[0].Path)
	assert.Equal(t, []LayerEntry{{Name: "creat"}}, def.Outputs[0].Layers)
	assert.Equal(t, []string{"> logs/latest.log", "second.log"}, def.Outputs[0].Tee)
	assert.Equal(t, StdioPath, def.Outputs[1].Path)
}

func TestParseHCL_Errors(t *testing.T) {
	_, err := ParseHCL([]byte(`output "x" {`), "bad.hcl")
	require.ErrorIs(t, err, ErrInvalidHcl)

	_, err = ParseHCL([]byte(`unknown = 1`), "bad.hcl")
	require.ErrorIs(t, err, ErrInvalidHcl)

	_, err = ParseHCL([]byte(`name = "x"`), "empty.hcl")
	require.ErrorIs(t, err, ErrNoOutputs)
}

func TestParse_Format(t *testing.T) {
	_, err := Parse([]byte(yamlDefinition), "p.YML")
	require.NoError(t, err)

	_, err = Parse([]byte(yamlDefinition), "p.json")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/defs/p.yaml", []byte(yamlDefinition), 0o644))

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	def, err := Load(context.Background(), "/defs/p.yaml")
	require.NoError(t, err)
	assert.Equal(t, "nightly", def.Name)

	_, err = Load(context.Background(), "/defs/missing.yaml")
	require.ErrorIs(t, err, ErrReadDefinition)
}

func TestBuildAndRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "build.log", []byte("line 1\nline 2\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "archive.log", []byte("old\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "latest.log", []byte("stale\n"), 0o644))

	var stdout bytes.Buffer

	stubs := gostub.Stub(&Stdout, &stdout)
	defer stubs.Reset()

	def, err := ParseYAML([]byte(yamlDefinition))
	require.NoError(t, err)

	p, err := Build(context.Background(), newConfig(fs), def)
	require.NoError(t, err)

	require.Len(t, p.Outputs(), 2)
	assert.Equal(t, []string{"file", "tee", "tee"}, p.Outputs()[0].Layers())
	assert.Equal(t, []string{"handle"}, p.Outputs()[1].Layers())

	p.bufSize = 4

	n, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 14, n)

	for name, want := range map[string]string{
		"archive.log": "old\nline 1\nline 2\n",
		"latest.log":  "line 1\nline 2\n",
		"second.log":  "line 1\nline 2\n",
	} {
		got, err := afero.ReadFile(fs, name)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), name)
	}

	assert.Equal(t, "line 1\nline 2\n", stdout.String())

	for _, out := range p.Outputs() {
		assert.True(t, out.Closed())
	}
}

func TestBuild_StdinInput(t *testing.T) {
	fs := afero.NewMemMapFs()

	stubs := gostub.Stub(&Stdin, strings.NewReader("from stdin"))
	defer stubs.Reset()

	p, err := Build(context.Background(), newConfig(fs), &Definition{
		Outputs: []Output{{Path: "out.log"}},
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, "out.log")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(got))
}

func TestBuild_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.log", nil, 0o644))

	tests := []struct {
		name    string
		def     *Definition
		wantErr error
	}{
		{
			name:    "missing input",
			def:     &Definition{Input: "missing.log", Outputs: []Output{{Path: "out.log"}}},
			wantErr: layer.ErrOpen,
		},
		{
			name: "unknown layer",
			def: &Definition{Input: "in.log", Outputs: []Output{
				{Path: "ok.log"},
				{Path: "out.log", Layers: []LayerEntry{{Name: "nope"}}},
			}},
			wantErr: layer.ErrUnknownLayer,
		},
		{
			name:    "bad mode",
			def:     &Definition{Input: "in.log", Outputs: []Output{{Path: "out.log", Mode: "<>"}}},
			wantErr: layer.ErrConfiguration,
		},
		{
			name:    "read mode tee",
			def:     &Definition{Input: "in.log", Outputs: []Output{{Path: "out.log", Mode: "+<", Tee: []string{"x.log"}}}},
			wantErr: tee.ErrCannotTee,
		},
		{
			name:    "no outputs",
			def:     &Definition{Input: "in.log"},
			wantErr: ErrNoOutputs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(context.Background(), newConfig(fs), tt.def)
			require.ErrorIs(t, err, ErrBuild)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.log", []byte("data"), 0o644))

	p, err := Build(context.Background(), newConfig(fs), &Definition{
		Input:   "in.log",
		Outputs: []Output{{Path: "out.log"}},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.True(t, p.Outputs()[0].Closed())
}
