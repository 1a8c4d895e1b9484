// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package layers contains the innermost layers: those that construct a stream
// on top of a physical or in-memory target. Each sub package registers one layer.
package layers
