// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package handle provides an innermost layer over a caller owned io.Writer or
// io.Reader. The handle is never closed by the layer.
package handle

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Name is the name the handle layer is registered under.
const Name = "handle"

var (
	_ layer.Opener   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
	_ layer.Fder     = (*Instance)(nil)
)

type flusher interface {
	Flush() error
}

// Layer opens streams on io.Writer and io.Reader targets.
type Layer struct{}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Open implements layer.Opener.
func (l *Layer) Open(_ context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	var v any

	switch t := req.Target(); t.Kind() {
	case layer.ArgTarget:
		v = t.Target()
	case layer.ArgStream:
		v = t.Stream()
	}

	return Wrap(chain.Config, v, req.Mode)
}

// Wrap returns a stream over v. The mode is narrowed to what v supports.
func Wrap(cfg *layer.Config, v any, mode layer.Mode) (*layer.Stream, error) {
	w, _ := v.(io.Writer)
	r, _ := v.(io.Reader)

	if w == nil && r == nil {
		return nil, fmt.Errorf("%w: handle layer needs an io.Writer or io.Reader, got %T", layer.ErrOpen, v)
	}

	if mode == layer.ModeNone {
		mode = layer.ModeWrite
		if w == nil {
			mode = layer.ModeRead
		}
	}

	flags := mode.Flags()

	if w == nil {
		flags &^= layer.FlagCanWrite
	}

	if r == nil {
		flags &^= layer.FlagCanRead
	}

	if flags&(layer.FlagCanRead|layer.FlagCanWrite) == 0 {
		return nil, fmt.Errorf("%w: %T cannot be opened with mode %q", layer.ErrOpen, v, mode)
	}

	inst := &Instance{
		Base:   layer.NewBase(&Layer{}, nil, flags|layer.FlagOpen),
		handle: v,
		w:      w,
		r:      r,
	}

	return layer.NewStream(cfg, mode, inst), nil
}

// Instance is a wrapped handle.
type Instance struct {
	layer.Base
	handle any
	w      io.Writer
	r      io.Reader
}

// Handle returns the wrapped value.
func (i *Instance) Handle() any { return i.handle }

// Read implements layer.Instance.
func (i *Instance) Read(p []byte) (int, error) {
	if i.r == nil {
		return 0, layer.ErrBadHandle
	}

	return i.r.Read(p) //nolint:wrapcheck
}

// Write implements layer.Instance.
func (i *Instance) Write(p []byte) (int, error) {
	if i.w == nil {
		return 0, layer.ErrBadHandle
	}

	return i.w.Write(p) //nolint:wrapcheck
}

// Flush implements layer.Instance.
func (i *Instance) Flush() error {
	if f, ok := i.handle.(flusher); ok {
		return f.Flush() //nolint:wrapcheck
	}

	return nil
}

// Seek implements layer.Instance.
func (i *Instance) Seek(offset int64, whence int) (int64, error) {
	if s, ok := i.handle.(io.Seeker); ok {
		return s.Seek(offset, whence) //nolint:wrapcheck
	}

	return 0, layer.ErrUnsupported
}

// Tell implements layer.Instance.
func (i *Instance) Tell() (int64, error) {
	return i.Seek(0, io.SeekCurrent)
}

// Fd implements layer.Fder.
func (i *Instance) Fd() (uintptr, bool) {
	if f, ok := i.handle.(*os.File); ok {
		return f.Fd(), true
	}

	return 0, false
}

// Register adds the handle layer to r.
func Register(r layer.Registry) {
	r.Register(&Layer{})
}
