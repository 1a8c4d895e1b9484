// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tee provides the duplicating layer.
//
// A tee instance sits on a writable stream and mirrors every write, flush and
// seek onto a secondary stream. The stream below the tee stays authoritative:
// results always come from it, and failures on the secondary are reported as
// diagnostics through the stream's configuration.
//
// The secondary is either borrowed, when an open stream is given as the
// destination, or owned, when the tee opened it from a file name or a target
// value. Owned secondaries are closed when the tee is popped.
package tee
