// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"context"
	"os"
)

// Layer is a named kind of filter that can be attached to a stream.
// Capabilities are discovered with type assertions against Pusher and Opener.
type Layer interface {
	Name() string
}

// Pusher is implemented by layers that can be attached to an open stream.
type Pusher interface {
	Layer
	// Push creates a new instance on top of req.Next.
	// On error the stream must be left exactly as it was.
	Push(ctx context.Context, req *PushRequest) (Instance, error)
}

// Opener is implemented by layers that can construct a stream from scratch.
type Opener interface {
	Layer
	// Open constructs a stream. The layers beneath this one in the requested
	// stack are available through chain.
	Open(ctx context.Context, chain *Chain, req OpenRequest) (*Stream, error)
}

// PushRequest carries the parameters of a push.
type PushRequest struct {
	Stream *Stream
	Next   Instance
	Mode   Mode
	Arg    Arg
}

// Config returns the configuration of the stream being pushed onto.
func (r *PushRequest) Config() *Config {
	return r.Stream.Config()
}

// OpenRequest carries the parameters of an open.
type OpenRequest struct {
	Mode   Mode
	Fd     int // descriptor to adopt, only used when HasFd is set
	HasFd  bool
	Perm   os.FileMode
	OSFlag int // extra os.O_* bits added by pseudo layers
	Args   []Arg
}

// NewOpenRequest returns a request for mode with the given positional arguments.
func NewOpenRequest(mode Mode, args ...any) OpenRequest {
	return OpenRequest{
		Mode: mode,
		Args: ArgsFrom(args...),
	}
}

// WithFd returns a copy of the request that adopts the descriptor fd.
func (r OpenRequest) WithFd(fd int) OpenRequest {
	r.Fd = fd
	r.HasFd = true

	return r
}

// Target returns the first positional argument, the thing being opened.
func (r OpenRequest) Target() Arg {
	if len(r.Args) == 0 {
		return Arg{}
	}

	return r.Args[0]
}

// Instance is a single attachment of a layer to a stream.
type Instance interface {
	Layer() Layer
	// Next returns the instance below this one, or nil for the innermost.
	Next() Instance
	Flags() Flags
	SetFlags(Flags)
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	Seek(offset int64, whence int) (int64, error)
	Tell() (int64, error)
	Binmode() error
	// Popped is called once when the instance is removed from its stream.
	Popped() error
	// Arg returns a copy of the argument the instance was attached with,
	// so that the stack can be rebuilt on another stream.
	Arg() Arg
}

// Fder is implemented by instances that may be backed by an operating system
// descriptor. The bool is false when there is none.
type Fder interface {
	Fd() (uintptr, bool)
}

// Fd returns the descriptor of the first instance at or below inst that has one.
func Fd(inst Instance) (uintptr, bool) {
	for i := inst; i != nil; i = i.Next() {
		if f, ok := i.(Fder); ok {
			if fd, ok := f.Fd(); ok {
				return fd, true
			}
		}
	}

	return 0, false
}

// Base provides the pass-through behaviour of a layer instance.
// Layer implementations embed it and override the operations they change.
type Base struct {
	layer Layer
	next  Instance
	flags Flags
}

// NewBase returns a Base for layer l sitting on top of next.
func NewBase(l Layer, next Instance, flags Flags) Base {
	return Base{layer: l, next: next, flags: flags}
}

// Layer implements Instance.
func (b *Base) Layer() Layer { return b.layer }

// Next implements Instance.
func (b *Base) Next() Instance { return b.next }

// Flags implements Instance.
func (b *Base) Flags() Flags { return b.flags }

// SetFlags implements Instance.
func (b *Base) SetFlags(f Flags) { b.flags = f }

// Read implements Instance.
func (b *Base) Read(p []byte) (int, error) {
	if b.next == nil {
		return 0, ErrUnsupported
	}

	return b.next.Read(p)
}

// Write implements Instance.
func (b *Base) Write(p []byte) (int, error) {
	if b.next == nil {
		return 0, ErrUnsupported
	}

	return b.next.Write(p)
}

// Flush implements Instance.
func (b *Base) Flush() error {
	if b.next == nil {
		return nil
	}

	return b.next.Flush()
}

// Seek implements Instance.
func (b *Base) Seek(offset int64, whence int) (int64, error) {
	if b.next == nil {
		return 0, ErrUnsupported
	}

	return b.next.Seek(offset, whence)
}

// Tell implements Instance.
func (b *Base) Tell() (int64, error) {
	if b.next == nil {
		return 0, ErrUnsupported
	}

	return b.next.Tell()
}

// Binmode implements Instance. It clears FlagText and passes the request down.
func (b *Base) Binmode() error {
	b.flags &^= FlagText

	if b.next == nil {
		return nil
	}

	return b.next.Binmode()
}

// Popped implements Instance.
func (b *Base) Popped() error { return nil }

// Arg implements Instance.
func (b *Base) Arg() Arg { return Arg{} }
