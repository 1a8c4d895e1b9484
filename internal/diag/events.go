// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package diag

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSecondaryIO wraps every failure reported as a diagnostic.
var ErrSecondaryIO = errors.New("secondary stream operation failed")

// Op is the operation that failed.
type Op int

const (
	// OpWrite is a mirrored write.
	OpWrite Op = iota
	// OpFlush is a mirrored flush.
	OpFlush
	// OpSeek is a mirrored seek.
	OpSeek
	// OpBinmode is a mirrored binmode.
	OpBinmode
	// OpClose is the close of an owned secondary on detach.
	OpClose
)

// String implements the Stringer interface for Op.
func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpFlush:
		return "flush"
	case OpSeek:
		return "seek"
	case OpBinmode:
		return "binmode"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event describes one failed best-effort operation.
type Event struct {
	StreamID  uuid.UUID // Stream the reporting instance is attached to
	Layer     string    // Name of the reporting layer
	Op        Op        // Operation that failed
	Err       error     // Cause, always wrapping ErrSecondaryIO
	Want      int       // For OpWrite, bytes requested
	Got       int       // For OpWrite, bytes written
	Timestamp time.Time // When the failure was observed
}

// NewEvent creates an event for op failing with cause.
func NewEvent(streamID uuid.UUID, layer string, op Op, cause error) Event {
	return Event{
		StreamID:  streamID,
		Layer:     layer,
		Op:        op,
		Err:       errors.Join(ErrSecondaryIO, cause),
		Timestamp: time.Now(),
	}
}

// Message returns a human readable description of the event.
func (e Event) Message() string {
	if e.Op == OpWrite && e.Got != e.Want {
		return fmt.Sprintf("failed to %s to %s-out: wrote %d of %d bytes", e.Op, e.Layer, e.Got, e.Want)
	}

	return fmt.Sprintf("failed to %s %s-out", e.Op, e.Layer)
}

// Reporter receives diagnostic events.
// Implementations must not block for long; Report is called inline with I/O.
type Reporter interface {
	Report(event Event)
}

// Listener receives events forwarded by a ChannelReporter.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) { f(event) }
