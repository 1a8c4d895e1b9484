// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package flock provides a layer that takes an advisory whole file lock on the
// stream it is pushed onto. The lock is exclusive when the stream is writable
// and shared otherwise, and is released when the layer is popped.
//
// The argument selects whether to wait for the lock: "blocking" (the default),
// or "non-blocking" which may also be spelt "LOCK_NB".
// Streams without an operating system descriptor are accepted without locking.
package flock

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/iolayer/internal/ctxlog"
	"github.com/matt-FFFFFF/iolayer/internal/layer"
)

// Name is the name the flock layer is registered under.
const Name = "flock"

// ErrLocked is returned when a non-blocking lock is held by someone else.
var ErrLocked = fmt.Errorf("%w: file is locked", layer.ErrResource)

var (
	_ layer.Pusher   = (*Layer)(nil)
	_ layer.Instance = (*Instance)(nil)
)

// Layer is the flock layer.
type Layer struct{}

// Name implements layer.Layer.
func (l *Layer) Name() string { return Name }

// Push implements layer.Pusher.
func (l *Layer) Push(ctx context.Context, req *layer.PushRequest) (layer.Instance, error) {
	if req.Next == nil {
		return nil, layer.ErrBadHandle
	}

	blocking, err := parseArg(req.Arg)
	if err != nil {
		return nil, err
	}

	exclusive := req.Next.Flags().Has(layer.FlagCanWrite)

	inst := &Instance{
		Base: layer.NewBase(l, req.Next, req.Next.Flags()),
		arg:  req.Arg.Clone(),
	}

	fd, ok := layer.Fd(req.Next)
	if !ok {
		ctxlog.Debug(ctx, "flock skipped, stream has no descriptor", "stream", req.Stream.ID().String())
		return inst, nil
	}

	if err := req.Next.Flush(); err != nil {
		return nil, err
	}

	if err := lockFn(fd, exclusive, blocking); err != nil {
		if errors.Is(err, errWouldBlock) {
			return nil, fmt.Errorf("%w: %w", ErrLocked, err)
		}

		return nil, fmt.Errorf("%w: flock: %w", layer.ErrResource, err)
	}

	ctxlog.Debug(ctx, "flock acquired",
		"stream", req.Stream.ID().String(),
		"fd", fd,
		"exclusive", exclusive,
		"blocking", blocking,
	)

	inst.fd = fd
	inst.locked = true

	return inst, nil
}

func parseArg(arg layer.Arg) (bool, error) {
	switch {
	case arg.IsZero():
		return true, nil
	case arg.Kind() != layer.ArgName:
		return false, fmt.Errorf("%w: flock argument must be a name, got %s", layer.ErrConfiguration, arg.Kind())
	}

	switch arg.Name() {
	case "", "blocking":
		return true, nil
	case "non-blocking", "LOCK_NB":
		return false, nil
	default:
		return false, fmt.Errorf("%w: unrecognized flock argument %q (it must be 'blocking' or 'non-blocking')",
			layer.ErrConfiguration, arg.Name())
	}
}

// Instance holds a lock on the descriptor of the stream below.
type Instance struct {
	layer.Base
	arg    layer.Arg
	fd     uintptr
	locked bool
}

// Locked reports whether the instance holds a lock.
func (i *Instance) Locked() bool { return i.locked }

// Arg implements layer.Instance.
func (i *Instance) Arg() layer.Arg { return i.arg.Clone() }

// Popped implements layer.Instance. It releases the lock.
func (i *Instance) Popped() error {
	if !i.locked {
		return nil
	}

	i.locked = false

	return unlockFn(i.fd)
}

// Register adds the flock layer to r.
func Register(r layer.Registry) {
	r.Register(&Layer{})
}
