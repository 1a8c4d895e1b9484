// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tee

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/diag"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Name is the name the tee layer is registered under.
const Name = "tee"

// ErrCannotTee is returned when the stream below the tee is not writable, or
// when a tee stream is opened for anything other than output.
var ErrCannotTee = errors.New("cannot tee")

// mirrored are the flags copied onto the secondary when a tee is attached.
const mirrored = layer.FlagText | layer.FlagLineBuffered | layer.FlagUnbuffered

var (
	_ layer.Pusher   = (*Layer)(nil)
	_ layer.Opener   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
)

// Layer is the tee layer.
type Layer struct{}

// New returns the tee layer.
func New() *Layer {
	return &Layer{}
}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Push attaches a tee mirroring onto the destination in req.Arg.
func (l *Layer) Push(ctx context.Context, req *layer.PushRequest) (layer.Instance, error) {
	if req.Next == nil || !req.Next.Flags().Has(layer.FlagCanWrite) {
		return nil, fmt.Errorf("%w: stream is not writable", ErrCannotTee)
	}

	fallback := layer.ModeWrite
	if req.Mode.WriteOnly() {
		fallback = req.Mode
	}

	cfg := req.Config()

	secondary, owns, err := Resolve(ctx, cfg, req.Next, req.Arg, fallback)
	if err != nil {
		return nil, err
	}

	flags := req.Next.Flags()
	secondary.SetFlags(secondary.Flags() | flags&mirrored)

	ctxlog.Debug(ctx, "tee attached",
		"stream", req.Stream.ID().String(),
		"secondary", secondary.ID().String(),
		"owned", owns,
	)

	return &Instance{
		Base:      layer.NewBase(l, req.Next, flags),
		cfg:       cfg,
		stream:    req.Stream,
		secondary: secondary,
		owns:      owns,
		arg:       req.Arg.Clone(),
		state:     stateAttached,
	}, nil
}

// Open constructs a stream through the layers below the tee using the first
// argument, then pushes one tee for each remaining argument and one for the
// layer's own argument. If any push fails the whole stream is closed.
func (l *Layer) Open(ctx context.Context, chain *layer.Chain, req layer.OpenRequest) (*layer.Stream, error) {
	if !req.Mode.WriteOnly() {
		return nil, fmt.Errorf("%w: cannot open for %q", ErrCannotTee, req.Mode)
	}

	base := req
	base.Args = nil

	specs := chain.Below

	if len(req.Args) > 0 {
		target := req.Args[0]
		if target.Kind() == layer.ArgStream {
			target = layer.TargetArg(target.Stream())
		}

		base.Args = []layer.Arg{target}

		if !layer.HasOpener(specs) {
			specs = append(inferredSpecs(chain.Config, target), specs...)
		}
	}

	s, err := layer.Open(ctx, chain.Config, specs, base)
	if err != nil {
		return nil, err
	}

	dests := req.Args
	if len(dests) > 0 {
		dests = dests[1:]
	}

	if !chain.Self.Arg.IsZero() {
		dests = append(dests[:len(dests):len(dests)], chain.Self.Arg)
	}

	for _, dest := range dests {
		if _, err := s.Push(ctx, l, req.Mode, dest); err != nil {
			if cerr := s.Close(); cerr != nil {
				ctxlog.Warn(ctx, "failed to close tee stream after failed push",
					"stream", s.ID().String(),
					"error", cerr,
				)
			}

			return nil, err
		}
	}

	return s, nil
}

type state int

const (
	stateUninitialized state = iota
	stateAttached
	stateDetached
)

// Instance is one attachment of the tee layer.
type Instance struct {
	layer.Base
	cfg       *layer.Config
	stream    *layer.Stream
	secondary *layer.Stream
	owns      bool
	arg       layer.Arg
	state     state
}

// Secondary returns the stream the instance mirrors onto.
func (t *Instance) Secondary() *layer.Stream { return t.secondary }

// Owns reports whether the instance opened its secondary and closes it when popped.
func (t *Instance) Owns() bool { return t.owns }

// Detached reports whether the instance has been popped.
func (t *Instance) Detached() bool { return t.state == stateDetached }

func (t *Instance) event(op diag.Op, err error) diag.Event {
	return diag.NewEvent(t.stream.ID(), Name, op, err)
}

// Write implements layer.Instance. The write to the secondary is best effort;
// the result is that of the stream below.
func (t *Instance) Write(p []byte) (int, error) {
	if t.state != stateAttached {
		return 0, layer.ErrDetached
	}

	n, err := t.secondary.Write(p)
	if err != nil || n != len(p) {
		if err == nil {
			err = io.ErrShortWrite
		}

		e := t.event(diag.OpWrite, err)
		e.Want, e.Got = len(p), n
		t.cfg.Report(e)
	}

	return t.Next().Write(p)
}

// Flush implements layer.Instance.
func (t *Instance) Flush() error {
	if t.state != stateAttached {
		return layer.ErrDetached
	}

	if err := t.secondary.Flush(); err != nil {
		t.cfg.Report(t.event(diag.OpFlush, err))
	}

	return t.Next().Flush()
}

// Seek implements layer.Instance. The stream is flushed first and a flush
// failure fails the seek.
func (t *Instance) Seek(offset int64, whence int) (int64, error) {
	if err := t.Flush(); err != nil {
		return 0, err
	}

	if _, err := t.secondary.Seek(offset, whence); err != nil {
		t.cfg.Report(t.event(diag.OpSeek, err))
	}

	return t.Next().Seek(offset, whence)
}

// Tell implements layer.Instance.
func (t *Instance) Tell() (int64, error) {
	if t.state != stateAttached {
		return 0, layer.ErrDetached
	}

	return t.Next().Tell()
}

// Binmode implements layer.Instance. The secondary is only switched when its
// outermost layer is another tee.
func (t *Instance) Binmode() error {
	if t.state != stateAttached {
		return layer.ErrDetached
	}

	t.SetFlags(t.Flags() &^ layer.FlagText)

	err := t.Next().Binmode()

	if _, ok := t.secondary.Top().(*Instance); ok {
		if serr := t.secondary.Binmode(); serr != nil {
			t.cfg.Report(t.event(diag.OpBinmode, serr))
		}
	}

	return err
}

// Popped implements layer.Instance. An owned secondary is closed; a close
// failure is reported as a diagnostic. Popped never fails.
func (t *Instance) Popped() error {
	if t.state != stateAttached {
		return nil
	}

	if t.owns {
		if err := t.secondary.Close(); err != nil {
			t.cfg.Report(t.event(diag.OpClose, err))
		}
	}

	t.arg = layer.Arg{}
	t.state = stateDetached

	return nil
}

// Arg implements layer.Instance. It returns a copy of the destination the
// instance was attached with.
func (t *Instance) Arg() layer.Arg {
	return t.arg.Clone()
}

// Secondary returns the stream mirrored by the outermost tee of s.
func Secondary(s *layer.Stream) (*layer.Stream, bool) {
	t, ok := s.Top().(*Instance)
	if !ok || t.state != stateAttached {
		return nil, false
	}

	return t.secondary, true
}
