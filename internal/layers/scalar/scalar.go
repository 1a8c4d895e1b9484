// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scalar provides an innermost layer writing into an in-memory
// byte slice, string or bytes.Buffer.
package scalar

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Name is the name the scalar layer is registered under.
const Name = "scalar"

// ErrInvalidWhence is returned by Seek for an unknown whence or a negative position.
var ErrInvalidWhence = fmt.Errorf("%w: invalid seek", layer.ErrConfiguration)

var (
	_ layer.Opener   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
)

// Layer opens streams on *[]byte, *string and *bytes.Buffer targets.
type Layer struct{}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Open implements layer.Opener.
func (l *Layer) Open(_ context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	mode := req.Mode
	if mode == layer.ModeNone {
		mode = layer.ModeRead
	}

	inst := &Instance{Base: layer.NewBase(l, nil, mode.Flags()|layer.FlagOpen)}

	switch t := req.Target().Target().(type) {
	case *[]byte:
		inst.buf = bytes.Clone(*t)
		inst.sync = func(b []byte) { *t = append((*t)[:0], b...) }
	case *string:
		inst.buf = []byte(*t)
		inst.sync = func(b []byte) { *t = string(b) }
	case *bytes.Buffer:
		inst.buf = bytes.Clone(t.Bytes())
		inst.sync = func(b []byte) {
			t.Reset()
			t.Write(b)
		}
	default:
		return nil, fmt.Errorf("%w: scalar layer cannot open %s", layer.ErrOpen, req.Target())
	}

	switch mode {
	case layer.ModeWrite, layer.ModeReadWriteTruncate:
		inst.buf = inst.buf[:0]
		inst.sync(inst.buf)
	case layer.ModeAppend, layer.ModeReadAppend:
		inst.pos = len(inst.buf)
	}

	return layer.NewStream(chain.Config, mode, inst), nil
}

// Instance is an open scalar.
type Instance struct {
	layer.Base
	buf  []byte
	pos  int
	sync func([]byte)
}

// Bytes returns the current contents.
func (i *Instance) Bytes() []byte { return i.buf }

// Read implements layer.Instance.
func (i *Instance) Read(p []byte) (int, error) {
	if i.pos >= len(i.buf) {
		return 0, io.EOF
	}

	n := copy(p, i.buf[i.pos:])
	i.pos += n

	return n, nil
}

// Write implements layer.Instance. Writes past the end extend the scalar with zeros.
func (i *Instance) Write(p []byte) (int, error) {
	if i.Flags().Has(layer.FlagAppend) {
		i.pos = len(i.buf)
	}

	if end := i.pos + len(p); end > len(i.buf) {
		i.buf = append(i.buf, make([]byte, end-len(i.buf))...)
	}

	n := copy(i.buf[i.pos:], p)
	i.pos += n
	i.sync(i.buf)

	return n, nil
}

// Flush implements layer.Instance.
func (i *Instance) Flush() error { return nil }

// Seek implements layer.Instance.
func (i *Instance) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(i.pos) + offset
	case io.SeekEnd:
		pos = int64(len(i.buf)) + offset
	default:
		return 0, ErrInvalidWhence
	}

	if pos < 0 {
		return 0, ErrInvalidWhence
	}

	i.pos = int(pos)

	return pos, nil
}

// Tell implements layer.Instance.
func (i *Instance) Tell() (int64, error) { return int64(i.pos), nil }

// Register adds the scalar layer to r.
func Register(r layer.Registry) {
	r.Register(&Layer{})
}
