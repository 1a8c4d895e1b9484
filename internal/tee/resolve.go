// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tee

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Resolve turns a destination argument into a writable secondary stream.
// The returned bool reports whether the caller owns the stream and must close it.
//
// An open stream is borrowed as is. A name is parsed with ParseDefault and opened
// through the default layers. A target value is opened through the layer
// configured for its kind, or the default layers if there is none.
// next is the instance the secondary will mirror; a stream that contains it is
// rejected.
func Resolve(ctx context.Context, cfg *layer.Config, next layer.Instance, arg layer.Arg, fallback layer.Mode) (*layer.Stream, bool, error) {
	switch arg.Kind() {
	case layer.ArgStream:
		s := arg.Stream()
		if !s.CanWrite() {
			return nil, false, fmt.Errorf("%w: stream %s", layer.ErrIncompatibleTarget, s.ID())
		}

		if contains(s, next) {
			return nil, false, fmt.Errorf("%w: cannot tee a stream into itself", layer.ErrIncompatibleTarget)
		}

		return s, false, nil

	case layer.ArgName:
		mode, path := fallback, arg.Name()

		if len(path) > 1 {
			var err error

			mode, path, err = ParseDefault(path, fallback)
			if err != nil {
				return nil, false, err
			}
		}

		return open(ctx, cfg, nil, mode, layer.NameArg(path))

	case layer.ArgTarget:
		return open(ctx, cfg, inferredSpecs(cfg, arg), fallback, arg)

	default:
		return nil, false, fmt.Errorf("%w: tee needs a destination", layer.ErrConfiguration)
	}
}

func open(ctx context.Context, cfg *layer.Config, specs []layer.Spec, mode layer.Mode, target layer.Arg) (*layer.Stream, bool, error) {
	ctxlog.Debug(ctx, "opening tee destination", "target", target.String(), "mode", mode.String())

	s, err := layer.Open(ctx, cfg, specs, layer.OpenRequest{
		Mode: mode,
		Args: []layer.Arg{target},
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", layer.ErrOpen, target, err)
	}

	return s, true, nil
}

// inferredSpecs returns the layer configured for the kind of a target value.
// Streams given as targets are wrapped as handles.
func inferredSpecs(cfg *layer.Config, arg layer.Arg) []layer.Spec {
	var kind layer.TargetKind

	switch arg.Kind() {
	case layer.ArgTarget:
		kind = layer.Classify(arg.Target())
	case layer.ArgStream:
		kind = layer.KindHandle
	default:
		return nil
	}

	l, ok := cfg.TargetLayer(kind)
	if !ok {
		return nil
	}

	return []layer.Spec{{Layer: l}}
}

func contains(s *layer.Stream, inst layer.Instance) bool {
	if inst == nil {
		return false
	}

	for i := s.Top(); i != nil; i = i.Next() {
		if i == inst {
			return true
		}
	}

	return false
}
