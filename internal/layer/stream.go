// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

var (
	_ io.ReadWriteCloser = (*Stream)(nil)
	_ io.Seeker          = (*Stream)(nil)
)

// Stream is a byte channel with a stack of layer instances.
// A stream and its stack belong to a single goroutine.
type Stream struct {
	id     uuid.UUID
	cfg    *Config
	mode   Mode
	top    Instance
	closed bool
}

// Attachment records one instance of a stack so it can be rebuilt elsewhere.
type Attachment struct {
	Layer Layer
	Arg   Arg
}

// NewStream returns a stream whose innermost instance is base.
// It is called by layers implementing Opener once the physical source exists.
func NewStream(cfg *Config, mode Mode, base Instance) *Stream {
	if cfg == nil {
		cfg = NewConfig(nil)
	}

	return &Stream{
		id:   uuid.New(),
		cfg:  cfg,
		mode: mode,
		top:  base,
	}
}

// ID returns the identifier used to correlate logs and diagnostics.
func (s *Stream) ID() uuid.UUID { return s.id }

// Config returns the configuration the stream was opened with.
func (s *Stream) Config() *Config { return s.cfg }

// Mode returns the mode the stream was opened with.
func (s *Stream) Mode() Mode { return s.mode }

// Top returns the outermost instance, or nil if the stack is empty.
func (s *Stream) Top() Instance { return s.top }

// Closed reports whether Close has been called.
func (s *Stream) Closed() bool { return s.closed }

// Flags returns the flags of the outermost instance.
func (s *Stream) Flags() Flags {
	if s.top == nil {
		return 0
	}

	return s.top.Flags()
}

// SetFlags replaces the flags of the outermost instance.
func (s *Stream) SetFlags(f Flags) {
	if s.top != nil {
		s.top.SetFlags(f)
	}
}

// CanWrite reports whether the stream is open for writing.
func (s *Stream) CanWrite() bool {
	return !s.closed && s.top != nil && s.Flags().Has(FlagCanWrite)
}

// CanRead reports whether the stream is open for reading.
func (s *Stream) CanRead() bool {
	return !s.closed && s.top != nil && s.Flags().Has(FlagCanRead)
}

func (s *Stream) check() error {
	if s.closed {
		return ErrClosed
	}

	if s.top == nil {
		return ErrBadHandle
	}

	return nil
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	if !s.Flags().Has(FlagCanRead) {
		return 0, ErrBadHandle
	}

	return s.top.Read(p)
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	if !s.Flags().Has(FlagCanWrite) {
		return 0, ErrBadHandle
	}

	return s.top.Write(p)
}

// WriteString writes the contents of str.
func (s *Stream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Flush pushes buffered data down the stack.
func (s *Stream) Flush() error {
	if err := s.check(); err != nil {
		return err
	}

	return s.top.Flush()
}

// Seek implements io.Seeker.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	return s.top.Seek(offset, whence)
}

// Tell returns the current position.
func (s *Stream) Tell() (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	return s.top.Tell()
}

// Binmode switches the stream to binary mode.
func (s *Stream) Binmode() error {
	if err := s.check(); err != nil {
		return err
	}

	return s.top.Binmode()
}

// Push attaches layer l on top of the stack.
// On error the stack is unchanged.
func (s *Stream) Push(ctx context.Context, l Layer, mode Mode, arg Arg) (Instance, error) {
	if s.closed {
		return nil, ErrClosed
	}

	p, ok := l.(Pusher)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPushable, l.Name())
	}

	if mode == ModeNone {
		mode = s.mode
	}

	inst, err := p.Push(ctx, &PushRequest{
		Stream: s,
		Next:   s.top,
		Mode:   mode,
		Arg:    arg,
	})
	if err != nil {
		return nil, err
	}

	s.top = inst

	return inst, nil
}

// Pop removes the outermost instance and returns the result of its Popped hook.
func (s *Stream) Pop() error {
	if s.top == nil {
		return ErrBadHandle
	}

	inst := s.top
	s.top = inst.Next()

	return inst.Popped()
}

// Close flushes the stream and pops every instance, outermost first.
// Calling Close more than once is a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}

	var result error

	if s.top != nil {
		if err := s.top.Flush(); err != nil {
			result = multierror.Append(result, fmt.Errorf("flush: %w", err))
		}
	}

	for s.top != nil {
		name := s.top.Layer().Name()
		if err := s.Pop(); err != nil {
			result = multierror.Append(result, fmt.Errorf("pop %s: %w", name, err))
		}
	}

	s.closed = true

	return result
}

// Layers returns the names of the attached layers, innermost first.
func (s *Stream) Layers() []string {
	var names []string
	for i := s.top; i != nil; i = i.Next() {
		names = append(names, i.Layer().Name())
	}

	slices.Reverse(names)

	return names
}

// Attachments returns the layer and argument of every instance, innermost first.
func (s *Stream) Attachments() []Attachment {
	var atts []Attachment
	for i := s.top; i != nil; i = i.Next() {
		atts = append(atts, Attachment{Layer: i.Layer(), Arg: i.Arg()})
	}

	slices.Reverse(atts)

	return atts
}
