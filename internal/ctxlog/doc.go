// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog.Logger in a context.Context.
//
// The level is read from an environment variable named after the executable,
// e.g. IOLAYER_LOG_LEVEL for a binary called "iolayer". Recognised values are
// DEBUG, INFO, WARN and ERROR; anything else means WARN.
//
// The default handler prints one line per record to stderr, with the
// attributes rendered as indented JSON, coloured when stderr is a terminal.
package ctxlog
