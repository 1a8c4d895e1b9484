// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"context"

	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
)

// Spec is a requested layer together with the argument it was named with.
type Spec struct {
	Layer Layer
	Arg   Arg
}

// Chain is passed to Opener.Open. It holds the layers requested beneath the
// opener so that it can ask them to construct the stream.
type Chain struct {
	Config *Config
	Below  []Spec
	Self   Spec
}

// OpenBelow opens a stream through the layers beneath the opener.
// If none of them can open, the configured default layers are used.
func (c *Chain) OpenBelow(ctx context.Context, req OpenRequest) (*Stream, error) {
	return Open(ctx, c.Config, c.Below, req)
}

// Open constructs a stream through specs, listed innermost first.
// The outermost layer implementing Opener constructs the stream, and the layers
// above it are pushed in order. If a push fails the partial stream is closed
// and the error is returned.
func Open(ctx context.Context, cfg *Config, specs []Spec, req OpenRequest) (*Stream, error) {
	idx := openerIndex(specs)
	if idx < 0 {
		defaults, err := cfg.DefaultSpecs()
		if err != nil {
			return nil, err
		}

		specs = append(defaults, specs...)

		idx = openerIndex(specs)
		if idx < 0 {
			return nil, ErrNoOpener
		}
	}

	opener, _ := specs[idx].Layer.(Opener)

	ctxlog.Debug(ctx, "opening stream",
		"layer", opener.Name(),
		"mode", req.Mode.String(),
		"target", req.Target().String(),
	)

	stream, err := opener.Open(ctx, &Chain{
		Config: cfg,
		Below:  specs[:idx],
		Self:   specs[idx],
	}, req)
	if err != nil {
		return nil, err
	}

	for _, spec := range specs[idx+1:] {
		if _, err := stream.Push(ctx, spec.Layer, req.Mode, spec.Arg); err != nil {
			if cerr := stream.Close(); cerr != nil {
				ctxlog.Warn(ctx, "failed to close partially opened stream",
					"stream", stream.ID().String(),
					"error", cerr,
				)
			}

			return nil, err
		}
	}

	return stream, nil
}

// HasOpener reports whether any of specs can open a stream.
func HasOpener(specs []Spec) bool {
	return openerIndex(specs) >= 0
}

func openerIndex(specs []Spec) int {
	for i := len(specs) - 1; i >= 0; i-- {
		if _, ok := specs[i].Layer.(Opener); ok {
			return i
		}
	}

	return -1
}
