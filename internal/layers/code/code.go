// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package code provides an innermost layer that passes every write to a function.
package code

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Name is the name the code layer is registered under.
const Name = "code"

var (
	_ layer.Opener   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
)

// Layer opens write only streams on func([]byte) error, func([]byte) and func(string) targets.
type Layer struct{}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Open implements layer.Opener.
func (l *Layer) Open(_ context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	if !req.Mode.CanWrite() {
		return nil, fmt.Errorf("%w: code layer is write only", layer.ErrOpen)
	}

	var fn func([]byte) error

	switch t := req.Target().Target().(type) {
	case func([]byte) error:
		fn = t
	case func([]byte):
		fn = func(b []byte) error {
			t(b)
			return nil
		}
	case func(string):
		fn = func(b []byte) error {
			t(string(b))
			return nil
		}
	default:
		return nil, fmt.Errorf("%w: code layer cannot call %s", layer.ErrOpen, req.Target())
	}

	inst := &Instance{
		Base: layer.NewBase(l, nil, layer.FlagCanWrite|layer.FlagOpen|layer.FlagUnbuffered),
		fn:   fn,
	}

	return layer.NewStream(chain.Config, req.Mode, inst), nil
}

// Instance is an open function target.
type Instance struct {
	layer.Base
	fn func([]byte) error
}

// Write implements layer.Instance. The function receives a copy of p.
func (i *Instance) Write(p []byte) (int, error) {
	if err := i.fn(append([]byte(nil), p...)); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Tell implements layer.Instance.
func (i *Instance) Tell() (int64, error) { return 0, layer.ErrUnsupported }

// Register adds the code layer to r.
func Register(r layer.Registry) {
	r.Register(&Layer{})
}
