// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// StdioPath names standard input when used as the input, and standard output
// when used as an output path.
const StdioPath = "-"

var (
	// ErrInvalidYaml is returned when a YAML definition cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrInvalidHcl is returned when an HCL definition cannot be decoded.
	ErrInvalidHcl = errors.New("invalid HCL")
	// ErrUnknownFormat is returned when the format of a definition file cannot be determined.
	ErrUnknownFormat = errors.New("unknown definition format")
	// ErrNoOutputs is returned when a definition has no outputs.
	ErrNoOutputs = errors.New("no outputs specified")
	// ErrReadDefinition is returned when a definition file cannot be read.
	ErrReadDefinition = errors.New("failed to read definition")
	// ErrMissingField is returned when a required field of a definition is empty.
	ErrMissingField = errors.New("missing required field")
)

// FsFactory returns the filesystem definitions are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Definition is the root of a pipeline definition.
type Definition struct {
	Name    string   `yaml:"name"    hcl:"name,optional"`
	Input   string   `yaml:"input"   hcl:"input,optional"`
	Outputs []Output `yaml:"outputs" hcl:"output,block"`
}

// Output is one destination of a pipeline.
type Output struct {
	Path   string       `yaml:"path"   hcl:"path,label"`
	Mode   string       `yaml:"mode"   hcl:"mode,optional"`
	Layers []LayerEntry `yaml:"layers" hcl:"layer,block"`
	Tee    []string     `yaml:"tee"    hcl:"tee,optional"`
}

// LayerEntry names a layer, innermost first, with an optional argument.
type LayerEntry struct {
	Name string `yaml:"name" hcl:"name,label"`
	Arg  string `yaml:"arg"  hcl:"arg,optional"`
}

// Validate checks that the definition can be built.
func (d *Definition) Validate() error {
	if len(d.Outputs) == 0 {
		return ErrNoOutputs
	}

	for i, o := range d.Outputs {
		if o.Path == "" {
			return fmt.Errorf("%w: output %d has no path", ErrMissingField, i)
		}

		for j, l := range o.Layers {
			if l.Name == "" {
				return fmt.Errorf("%w: output %q layer %d has no name", ErrMissingField, o.Path, j)
			}
		}
	}

	return nil
}

// ParseYAML decodes a YAML definition.
func ParseYAML(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYaml, err) //nolint:errorlint
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// ParseHCL decodes an HCL definition. filename is used in diagnostics only.
func ParseHCL(data []byte, filename string) (*Definition, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrInvalidHcl, diags)
	}

	var def Definition
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &def); diags.HasErrors() {
		return nil, errors.Join(ErrInvalidHcl, diags)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Parse decodes data according to the extension of filename.
func Parse(data []byte, filename string) (*Definition, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filename)
	}
}

// Load reads and decodes the definition at path using the filesystem from FsFactory.
func Load(ctx context.Context, path string) (*Definition, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadDefinition, err)
	}

	ctxlog.Debug(ctx, "loaded pipeline definition", "path", path, "bytes", len(data))

	return Parse(data, path)
}

// evalContext exposes the environment as env.NAME and a few string functions.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(k) {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
		},
	}
}
