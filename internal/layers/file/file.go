// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package file provides the innermost layer for files on an afero filesystem.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
	"github.com/spf13/afero"
)

// Name is the name the file layer is registered under.
const Name = "file"

// DefaultPerm is used for newly created files when the request carries no permissions.
const DefaultPerm os.FileMode = 0o666

var (
	_ layer.Opener   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
	_ layer.Fder     = (*Instance)(nil)
)

// Layer opens files through the filesystem of the stream configuration.
type Layer struct{}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Open implements layer.Opener. The target must be a path, unless the request
// adopts a descriptor.
func (l *Layer) Open(_ context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	mode := req.Mode
	if mode == layer.ModeNone {
		mode = layer.ModeRead
	}

	var (
		f   afero.File
		err error
	)

	switch {
	case req.HasFd:
		osf := os.NewFile(uintptr(req.Fd), fmt.Sprintf("/dev/fd/%d", req.Fd))
		if osf == nil {
			return nil, fmt.Errorf("%w: invalid descriptor %d", layer.ErrOpen, req.Fd)
		}

		f = osf

	case req.Target().Kind() == layer.ArgName && req.Target().Name() != "":
		perm := req.Perm
		if perm == 0 {
			perm = DefaultPerm
		}

		f, err = chain.Config.FS.OpenFile(req.Target().Name(), mode.OSFlag()|req.OSFlag, perm)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", layer.ErrOpen, err)
		}

	default:
		return nil, fmt.Errorf("%w: file layer needs a path, got %s", layer.ErrOpen, req.Target().Kind())
	}

	inst := &Instance{
		Base: layer.NewBase(l, nil, mode.Flags()|layer.FlagOpen),
		file: f,
	}

	return layer.NewStream(chain.Config, mode, inst), nil
}

// Instance is an open file.
type Instance struct {
	layer.Base
	file   afero.File
	closed bool
}

// File returns the underlying file.
func (i *Instance) File() afero.File { return i.file }

// Fd implements layer.Fder. Files that are not backed by the operating system
// have no descriptor.
func (i *Instance) Fd() (uintptr, bool) {
	if f, ok := i.file.(*os.File); ok && !i.closed {
		return f.Fd(), true
	}

	return 0, false
}

// Read implements layer.Instance.
func (i *Instance) Read(p []byte) (int, error) {
	if i.closed {
		return 0, layer.ErrClosed
	}

	return i.file.Read(p) //nolint:wrapcheck
}

// Write implements layer.Instance.
func (i *Instance) Write(p []byte) (int, error) {
	if i.closed {
		return 0, layer.ErrClosed
	}

	return i.file.Write(p) //nolint:wrapcheck
}

// Flush implements layer.Instance. Writes are not buffered so there is nothing to do.
func (i *Instance) Flush() error {
	if i.closed {
		return layer.ErrClosed
	}

	return nil
}

// Seek implements layer.Instance.
func (i *Instance) Seek(offset int64, whence int) (int64, error) {
	if i.closed {
		return 0, layer.ErrClosed
	}

	return i.file.Seek(offset, whence) //nolint:wrapcheck
}

// Tell implements layer.Instance.
func (i *Instance) Tell() (int64, error) {
	return i.Seek(0, io.SeekCurrent)
}

// Popped implements layer.Instance. It closes the file.
func (i *Instance) Popped() error {
	if i.closed {
		return nil
	}

	i.closed = true

	return i.file.Close() //nolint:wrapcheck
}

// Register adds the file layer to r.
func Register(r layer.Registry) {
	r.Register(&Layer{})
}
