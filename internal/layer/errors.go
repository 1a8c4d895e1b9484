// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrConfiguration is returned when a mode, layer string or layer argument is invalid.
	ErrConfiguration = errors.New("invalid layer configuration")
	// ErrResource is returned when the operating system could not provide a resource.
	ErrResource = errors.New("resource unavailable")
	// ErrOpen is returned when a stream could not be constructed.
	ErrOpen = fmt.Errorf("%w: could not open stream", ErrResource)
	// ErrIncompatibleTarget is returned when a stream supplied as a target is not writable.
	ErrIncompatibleTarget = errors.New("target stream is not writable")
	// ErrUnknownLayer is returned when a layer name is not registered.
	ErrUnknownLayer = fmt.Errorf("%w: unknown layer", ErrConfiguration)
	// ErrNoOpener is returned when none of the requested layers can open a stream.
	ErrNoOpener = fmt.Errorf("%w: no layer can open the stream", ErrConfiguration)
	// ErrNotPushable is returned when a layer cannot be attached to an open stream.
	ErrNotPushable = errors.New("layer cannot be pushed onto an open stream")
	// ErrTooLate is returned by layers that only have an effect while opening.
	ErrTooLate = fmt.Errorf("%w: too late for layer", ErrNotPushable)
	// ErrDetached is returned by operations on a layer instance that has been popped.
	ErrDetached = errors.New("layer instance is detached")
	// ErrUnsupported is returned when an operation is not supported by a layer.
	ErrUnsupported = errors.New("operation not supported by layer")
	// ErrBadHandle is returned when a stream is not open for the requested operation.
	ErrBadHandle = errors.New("stream not open for this operation")
	// ErrClosed is returned when an operation is performed on a closed stream.
	// Re-exported from io/fs.
	ErrClosed = fs.ErrClosed
)
