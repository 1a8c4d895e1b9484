// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package layer provides a stackable I/O layer framework.
//
// A Stream is an ordered stack of layer instances, from the caller-facing
// (outer) instance down to the physical source (inner). Each Layer is a named
// kind that may be attached to an already open stream (Pusher) and/or may
// construct a new stream from scratch (Opener). Instances intercept the
// primitive operations of the stream (read, write, flush, seek, tell, binmode)
// and delegate to the instance below them. Base supplies the pass-through
// behaviour so that a layer only overrides what it changes.
//
// Streams are single-owner values and are not safe for concurrent use.
package layer
