// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package diag carries diagnostics for best-effort operations.
// Layers that mirror operations onto a secondary stream report failures
// here instead of changing the result of the caller's call. Reporters
// decide what happens to the events: log them, record them for tests,
// or forward them over a channel to a listener.
package diag
