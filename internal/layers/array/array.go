// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package array provides an innermost layer collecting written lines into a
// *[]string. Each element holds one line including its newline; a trailing
// partial line is appended when the instance is popped.
package array

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Name is the name the array layer is registered under.
const Name = "array"

var (
	_ layer.Opener   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
)

// Layer opens streams on *[]string targets.
type Layer struct{}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Open implements layer.Opener.
func (l *Layer) Open(_ context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	lines, ok := req.Target().Target().(*[]string)
	if !ok || lines == nil {
		return nil, fmt.Errorf("%w: array layer needs a *[]string, got %s", layer.ErrOpen, req.Target())
	}

	mode := req.Mode
	if mode == layer.ModeNone {
		mode = layer.ModeRead
	}

	inst := &Instance{
		Base:  layer.NewBase(l, nil, mode.Flags()|layer.FlagOpen|layer.FlagLineBuffered),
		lines: lines,
	}

	switch mode {
	case layer.ModeWrite, layer.ModeReadWriteTruncate:
		*lines = (*lines)[:0]
	case layer.ModeRead, layer.ModeReadWrite:
		inst.reader = strings.NewReader(strings.Join(*lines, ""))
	}

	return layer.NewStream(chain.Config, mode, inst), nil
}

// Instance is an open array.
type Instance struct {
	layer.Base
	lines    *[]string
	lastLine string
	partial  strings.Builder
	reader   *strings.Reader
}

// Read implements layer.Instance. It reads the lines present when the stream was opened.
func (i *Instance) Read(p []byte) (int, error) {
	if i.reader == nil {
		return 0, io.EOF
	}

	return i.reader.Read(p) //nolint:wrapcheck
}

// Write implements layer.Instance.
func (i *Instance) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	i.partial.Write(p)
	combined := i.partial.String()

	parts := strings.SplitAfter(combined, "\n")
	if len(parts) == 1 {
		return len(p), nil
	}

	// the last element is empty when the data ended with a newline, or partial otherwise
	complete := parts[:len(parts)-1]
	*i.lines = append(*i.lines, complete...)
	i.lastLine = strings.TrimSuffix(complete[len(complete)-1], "\n")

	i.partial.Reset()
	i.partial.WriteString(parts[len(parts)-1])

	return len(p), nil
}

// Flush implements layer.Instance. Partial lines are kept until the instance is popped.
func (i *Instance) Flush() error { return nil }

// Seek implements layer.Instance.
func (i *Instance) Seek(int64, int) (int64, error) { return 0, layer.ErrUnsupported }

// Tell implements layer.Instance.
func (i *Instance) Tell() (int64, error) { return 0, layer.ErrUnsupported }

// LastLine returns the last complete line written, without its newline.
func (i *Instance) LastLine() string { return i.lastLine }

// Partial returns the data written after the last newline.
func (i *Instance) Partial() string { return i.partial.String() }

// Popped implements layer.Instance. It appends any partial line.
func (i *Instance) Popped() error {
	if i.partial.Len() > 0 {
		*i.lines = append(*i.lines, i.partial.String())
		i.partial.Reset()
	}

	return nil
}

// Register adds the array layer to r.
func Register(r layer.Registry) {
	r.Register(&Layer{})
}
