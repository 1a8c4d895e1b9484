// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/matt-FFFFFF/iolayer/internal/layers/handle"
	"github.com/matt-FFFFFF/iolayer/internal/tee"
)

// DefaultBufferSize is the size of the chunks copied from the input.
const DefaultBufferSize = 32 * 1024

var (
	// Stdin is read when the input is StdioPath.
	Stdin io.Reader = os.Stdin
	// Stdout is written when an output path is StdioPath.
	Stdout io.Writer = os.Stdout
)

var (
	// ErrBuild is returned when the streams of a pipeline cannot be opened.
	ErrBuild = errors.New("failed to build pipeline")
	// ErrCopy is returned when the input cannot be copied to an output.
	ErrCopy = errors.New("failed to copy")
)

// Pipeline is a built definition: an open input and its open outputs.
type Pipeline struct {
	Name    string
	input   *layer.Stream
	outputs []*layer.Stream
	bufSize int
}

// Build opens the input and every output of def.
// If any stream cannot be opened, those already opened are closed.
func Build(ctx context.Context, cfg *layer.Config, def *Definition) (*Pipeline, error) {
	if err := def.Validate(); err != nil {
		return nil, errors.Join(ErrBuild, err)
	}

	p := &Pipeline{
		Name:    def.Name,
		bufSize: DefaultBufferSize,
	}

	input, err := openInput(ctx, cfg, def.Input)
	if err != nil {
		return nil, errors.Join(ErrBuild, err)
	}

	p.input = input

	for _, o := range def.Outputs {
		s, err := openOutput(ctx, cfg, o)
		if err != nil {
			if cerr := p.Close(); cerr != nil {
				ctxlog.Warn(ctx, "failed to close pipeline after build error", "error", cerr)
			}

			return nil, errors.Join(ErrBuild, fmt.Errorf("output %q: %w", o.Path, err))
		}

		p.outputs = append(p.outputs, s)
	}

	ctxlog.Debug(ctx, "pipeline built", "name", p.Name, "outputs", len(p.outputs))

	return p, nil
}

func openInput(ctx context.Context, cfg *layer.Config, path string) (*layer.Stream, error) {
	if path == "" || path == StdioPath {
		return handle.Wrap(cfg, Stdin, layer.ModeRead)
	}

	return layer.Open(ctx, cfg, nil, layer.NewOpenRequest(layer.ModeRead, path))
}

func openOutput(ctx context.Context, cfg *layer.Config, o Output) (*layer.Stream, error) {
	mode := layer.ModeWrite

	if o.Mode != "" {
		m, err := layer.ParseMode(o.Mode)
		if err != nil {
			return nil, err
		}

		mode = m
	}

	var (
		specs  []layer.Spec
		target any = o.Path
	)

	if o.Path == StdioPath {
		h, err := cfg.Lookup(handle.Name)
		if err != nil {
			return nil, err
		}

		specs = append(specs, layer.Spec{Layer: h})
		target = layer.TargetArg(Stdout)
	}

	for _, e := range o.Layers {
		l, err := cfg.Lookup(e.Name)
		if err != nil {
			return nil, err
		}

		spec := layer.Spec{Layer: l}
		if e.Arg != "" {
			spec.Arg = layer.NameArg(e.Arg)
		}

		specs = append(specs, spec)
	}

	args := []any{target}

	if len(o.Tee) > 0 {
		t, err := cfg.Lookup(tee.Name)
		if err != nil {
			return nil, err
		}

		specs = append(specs, layer.Spec{Layer: t})

		for _, dest := range o.Tee {
			args = append(args, dest)
		}
	}

	return layer.Open(ctx, cfg, specs, layer.NewOpenRequest(mode, args...))
}

// Outputs returns the open output streams.
func (p *Pipeline) Outputs() []*layer.Stream { return p.outputs }

// Run copies the input to every output until the input is exhausted or ctx
// is cancelled, then closes all streams. It returns the number of bytes read.
func (p *Pipeline) Run(ctx context.Context) (int64, error) {
	n, err := p.copy(ctx)

	if cerr := p.Close(); cerr != nil {
		err = multierror.Append(err, cerr)
	}

	return n, err
}

func (p *Pipeline) copy(ctx context.Context) (int64, error) {
	var total int64

	buf := make([]byte, p.bufSize)

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, rerr := p.input.Read(buf)
		if n > 0 {
			total += int64(n)

			for _, out := range p.outputs {
				if _, err := out.Write(buf[:n]); err != nil {
					return total, errors.Join(ErrCopy, err)
				}
			}
		}

		if errors.Is(rerr, io.EOF) {
			return total, nil
		}

		if rerr != nil {
			return total, errors.Join(ErrCopy, rerr)
		}
	}
}

// Close closes every stream of the pipeline. It is safe to call more than once.
func (p *Pipeline) Close() error {
	var result error

	for _, out := range p.outputs {
		if err := out.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if p.input != nil {
		if err := p.input.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result
}
